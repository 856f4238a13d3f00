package response

// RequestIDKey 是 gin context 中保存请求 ID 的键。
const RequestIDKey = "request_id"

// Response 是统一响应结构。
//
//	成功: { success: true, data: {...}, message: "...", code: 200, request_id: "..." }
//	失败: { success: false, error: "ERROR_CODE", message: "...", code: 4xx/5xx, request_id: "..." }
type Response struct {
	Success   bool              `json:"success"`
	Data      interface{}       `json:"data,omitempty"`
	Error     string            `json:"error,omitempty"` // 错误码，不是错误详情
	Code      int               `json:"code"`            // HTTP 状态码
	Message   string            `json:"message"`
	Field     string            `json:"field,omitempty"`
	Details   map[string]string `json:"details,omitempty"` // 请求体校验失败的字段
	RequestID string            `json:"request_id,omitempty"`
}
