// Package docs swag 문서 등록 (swag init 결과물)
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
	"schemes": {{ marshal .Schemes }},
	"swagger": "2.0",
	"info": {
		"description": "{{escape .Description}}",
		"title": "{{.Title}}",
		"contact": {},
		"version": "{{.Version}}"
	},
	"host": "{{.Host}}",
	"basePath": "{{.BasePath}}",
	"paths": {
		"/api/admin/users": {
			"get": {
				"tags": [
					"Admin"
				],
				"summary": "관리자 사용자 목록",
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/admin/fabric-softeners": {
			"get": {
				"tags": [
					"Admin"
				],
				"summary": "관리자 섬유유연제 목록",
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			},
			"post": {
				"tags": [
					"Admin"
				],
				"summary": "섬유유연제 등록",
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/admin/washings": {
			"get": {
				"tags": [
					"Admin"
				],
				"summary": "관리자 분석 내역 목록",
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/admin/washings/good": {
			"get": {
				"tags": [
					"Admin"
				],
				"summary": "만족 평가된 분석 내역",
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/admin/{resource}/sort": {
			"post": {
				"tags": [
					"Admin"
				],
				"summary": "관리자 목록 정렬 변경",
				"parameters": [
					{
						"type": "string",
						"name": "resource",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/admin/users/{id}": {
			"patch": {
				"tags": [
					"Admin"
				],
				"summary": "사용자 정보 수정",
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/admin/fabric-softeners/{id}": {
			"patch": {
				"tags": [
					"Admin"
				],
				"summary": "섬유유연제 수정",
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/admin/{resource}/{id}": {
			"delete": {
				"tags": [
					"Admin"
				],
				"summary": "관리 항목 삭제",
				"parameters": [
					{
						"type": "string",
						"name": "resource",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/admin/{resource}/bulk-delete": {
			"post": {
				"tags": [
					"Admin"
				],
				"summary": "관리 항목 일괄 삭제",
				"parameters": [
					{
						"type": "string",
						"name": "resource",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/admin/dashboard": {
			"get": {
				"tags": [
					"Admin"
				],
				"summary": "관리자 대시보드",
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/admin/models": {
			"get": {
				"tags": [
					"Admin"
				],
				"summary": "AI 모델 성능",
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/analysis/{type}": {
			"get": {
				"tags": [
					"Analysis"
				],
				"summary": "분석 페이지 상태",
				"parameters": [
					{
						"type": "string",
						"name": "type",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			},
			"delete": {
				"tags": [
					"Analysis"
				],
				"summary": "분석 페이지 이탈",
				"parameters": [
					{
						"type": "string",
						"name": "type",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/analysis/{type}/{slot}/option": {
			"put": {
				"tags": [
					"Analysis"
				],
				"summary": "이미지 업로드 형식 선택",
				"parameters": [
					{
						"type": "string",
						"name": "type",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"name": "slot",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/analysis/{type}/{slot}/image": {
			"post": {
				"tags": [
					"Analysis"
				],
				"summary": "이미지 파일 업로드",
				"parameters": [
					{
						"type": "string",
						"name": "type",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"name": "slot",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/analysis/{type}/{slot}/capture": {
			"post": {
				"tags": [
					"Analysis"
				],
				"summary": "카메라 촬영",
				"parameters": [
					{
						"type": "string",
						"name": "type",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"name": "slot",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/analysis/{type}/run": {
			"post": {
				"tags": [
					"Analysis"
				],
				"summary": "분석 실행",
				"parameters": [
					{
						"type": "string",
						"name": "type",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/results": {
			"get": {
				"tags": [
					"Analysis"
				],
				"summary": "최근 분석 결과 목록 (현재 세션)",
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/results/{id}": {
			"get": {
				"tags": [
					"Analysis"
				],
				"summary": "분석 결과 조회",
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/results/{id}/narration": {
			"get": {
				"tags": [
					"Analysis"
				],
				"summary": "분석 결과 음성 안내",
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/washings": {
			"get": {
				"tags": [
					"History"
				],
				"summary": "사용자 분석 내역 조회",
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/washings/{id}": {
			"get": {
				"tags": [
					"History"
				],
				"summary": "분석 내역 상세",
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/washings/{id}/estimation": {
			"patch": {
				"tags": [
					"History"
				],
				"summary": "분석 결과 만족도 평가",
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/scents": {
			"get": {
				"tags": [
					"FabricSoftener"
				],
				"summary": "향기 카테고리 목록",
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/fabric-softeners/{scent}": {
			"get": {
				"tags": [
					"FabricSoftener"
				],
				"summary": "향기별 섬유유연제 추천",
				"parameters": [
					{
						"type": "string",
						"name": "scent",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/laundries": {
			"get": {
				"tags": [
					"Nearby"
				],
				"summary": "주변 세탁소 검색",
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/laundries/voice": {
			"post": {
				"tags": [
					"Nearby"
				],
				"summary": "음성으로 세탁소 검색",
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/users/duplicate-check": {
			"post": {
				"tags": [
					"User"
				],
				"summary": "이메일 중복 확인",
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/users/signup": {
			"post": {
				"tags": [
					"User"
				],
				"summary": "회원가입 (Signup)",
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/users/sign-in": {
			"post": {
				"tags": [
					"User"
				],
				"summary": "로그인",
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/users/sign-out": {
			"post": {
				"tags": [
					"User"
				],
				"summary": "로그아웃",
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/users/me": {
			"get": {
				"tags": [
					"User"
				],
				"summary": "현재 로그인 사용자",
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/users/email": {
			"post": {
				"tags": [
					"User"
				],
				"summary": "이메일 찾기",
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/users/verify-code": {
			"post": {
				"tags": [
					"User"
				],
				"summary": "비밀번호 재설정 인증번호 전송",
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/users/verify-code/check": {
			"post": {
				"tags": [
					"User"
				],
				"summary": "인증번호 확인",
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/users/password": {
			"patch": {
				"tags": [
					"User"
				],
				"summary": "비밀번호 재설정",
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/ws/camera": {
			"get": {
				"tags": [
					"WebSocket (Camera)"
				],
				"summary": "카메라 프레임 WebSocket 연결",
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "RushWash Web API",
	Description:      "세탁 얼룩/라벨 분석 웹 서버 API",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
