package handler

import (
	"net/http"

	"RushWash_Web/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterOptions struct {
	IsAdmin func(email string) bool
	// 분석 실행 요청 제한 (IP별 분당 횟수)
	AnalysisRatePerMin int
	// 세션 쿠키를 쓰므로 출처를 명시해야 함 (비어 있으면 모든 출처 허용, 쿠키 미포함)
	AllowOrigins []string
}

// 라우트 등록
func (h *Handler) Routes(router *gin.Engine, opts RouterOptions) {
	config := cors.DefaultConfig()
	if len(opts.AllowOrigins) > 0 {
		config.AllowOrigins = opts.AllowOrigins
		config.AllowCredentials = true
	} else {
		config.AllowAllOrigins = true
	}
	config.AllowHeaders = append(config.AllowHeaders, "Authorization", "X-Forwarded-Proto")
	router.Use(cors.New(config))
	router.Use(middleware.SecureOrigin(), middleware.LoadSession(h.Store))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	users := router.Group("/api/users")
	{
		users.POST("/duplicate-check", h.CheckDuplicate)
		users.POST("/signup", h.Signup)
		users.POST("/sign-in", h.SignIn(opts.IsAdmin))
		users.POST("/sign-out", h.SignOut)
		users.POST("/email", h.FindEmail)
		users.POST("/verify-code", h.SendVerifyCode)
		users.POST("/verify-code/check", h.CheckVerifyCode)
		users.PATCH("/password", h.ResetPassword)
		users.GET("/me", middleware.RequireLogin(), h.Me(opts.IsAdmin))
	}

	router.GET("/api/scents", h.ListScents)
	router.GET("/api/laundries", h.SearchLaundries)
	router.POST("/api/laundries/voice", h.SearchLaundriesByVoice)

	protected := router.Group("/api").Use(middleware.RequireLogin())
	{
		protected.GET("/washings", h.GetHistory)
		protected.GET("/washings/:id", h.GetHistoryDetail)
		protected.PATCH("/washings/:id/estimation", h.EstimateHistory)
		protected.GET("/fabric-softeners/:scent", h.GetSoftenersByScent)

		protected.GET("/analysis/:type", h.GetAnalysisPage)
		protected.DELETE("/analysis/:type", h.LeaveAnalysisPage)
		protected.PUT("/analysis/:type/:slot/option", h.SelectOption)
		protected.POST("/analysis/:type/:slot/image", h.UploadImage)
		protected.POST("/analysis/:type/:slot/capture", h.CaptureImage)
		protected.POST("/analysis/:type/run", middleware.AnalysisRateLimit(opts.AnalysisRatePerMin), h.RunAnalysis)

		protected.GET("/results", h.ListResults)
		protected.GET("/results/:id", h.GetResult)
		protected.GET("/results/:id/narration", h.NarrateResult)
	}

	adminGroup := router.Group("/api/admin").Use(middleware.RequireLogin(), middleware.AdminOnly(opts.IsAdmin))
	{
		adminGroup.GET("/dashboard", h.GetAdminDashboard)
		adminGroup.GET("/models", h.GetModelMetrics)
		adminGroup.GET("/users", h.ListAdminUsers)
		adminGroup.PATCH("/users/:id", h.UpdateAdminUser)
		adminGroup.GET("/fabric-softeners", h.ListAdminSofteners)
		adminGroup.POST("/fabric-softeners", h.CreateAdminSoftener)
		adminGroup.PATCH("/fabric-softeners/:id", h.UpdateAdminSoftener)
		adminGroup.GET("/washings", h.ListAdminWashings)
		adminGroup.GET("/washings/good", h.ListGoodWashings)
		adminGroup.POST("/:resource/sort", h.ToggleAdminSort)
		adminGroup.POST("/:resource/bulk-delete", h.BulkDeleteAdminResource)
		adminGroup.DELETE("/:resource/:id", h.DeleteAdminResource)
	}

	router.GET("/ws/camera", middleware.RequireLogin(), h.HandleCamera)
}
