package server

// Response 统一的API响应结构
type Response struct {
	Code    int    `json:"code"`    // 0表示成功，非0表示失败
	Message string `json:"message"` // 提示信息
	Data    any    `json:"data"`    // 返回的数据
}

// Error codes
const (
	CodeOK            = 0
	CodeBadRequest    = 400
	CodeToolNotFound  = 1001
	CodeToolFailed    = 1002
	CodeMalformed     = 1003
	CodeInternalError = 1500
)

// Success 成功响应
func Success(data any) Response {
	return Response{
		Code:    CodeOK,
		Message: "success",
		Data:    data,
	}
}

// Error 错误响应
func Error(code int, message string) Response {
	return Response{
		Code:    code,
		Message: message,
	}
}

// ErrorWithData 带数据的错误响应
func ErrorWithData(code int, message string, data any) Response {
	return Response{
		Code:    code,
		Message: message,
		Data:    data,
	}
}
