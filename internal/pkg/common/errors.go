package common

import (
	"errors"
	"net/http"
)

// ErrorResponse 定義 API 錯誤響應結構
type ErrorResponse struct {
	Code    string `json:"code"`              // 錯誤代碼
	Message string `json:"message"`           // 錯誤信息
	Details string `json:"details,omitempty"` // 詳細信息（僅在開發模式顯示）
}

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Code    string       // 錯誤代碼
	Message string       // 錯誤信息
	Base    *CustomError // 所屬的預定義錯誤（WrapError 時設定）
	Err     error        // 原始錯誤
	Status  int          // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap 讓 errors.Is / errors.As 能同時追溯預定義錯誤與原始錯誤
func (e *CustomError) Unwrap() []error {
	var out []error
	if e.Base != nil {
		out = append(out, e.Base)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// WrapError 以既有的自定義錯誤為基底，附帶原始錯誤
// errors.Is(wrapped, base) 與 errors.Is(wrapped, 原始錯誤) 都成立
func WrapError(base *CustomError, err error) *CustomError {
	return &CustomError{
		Code:    base.Code,
		Message: base.Message,
		Status:  base.Status,
		Base:    base,
		Err:     err,
	}
}

// 預定義錯誤代碼
const (
	// 客戶端錯誤 (4xx)
	ErrCodeInvalidRequest  = "INVALID_REQUEST"   // 400
	ErrCodeNotFound        = "NOT_FOUND"         // 404
	ErrCodeRequestTimeout  = "REQUEST_TIMEOUT"   // 408
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS" // 429

	// 服務器錯誤 (5xx)
	ErrCodeInternalError      = "INTERNAL_ERROR"      // 500
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE" // 503
	ErrCodeGatewayTimeout     = "GATEWAY_TIMEOUT"     // 504
)

// 預定義錯誤
var (
	// 客戶端錯誤
	ErrInvalidRequest  = NewError(ErrCodeInvalidRequest, "無效的請求", http.StatusBadRequest, nil)
	ErrNotFound        = NewError(ErrCodeNotFound, "資源不存在", http.StatusNotFound, nil)
	ErrRequestTimeout  = NewError(ErrCodeRequestTimeout, "請求超時", http.StatusRequestTimeout, nil)
	ErrTooManyRequests = NewError(ErrCodeTooManyRequests, "請求過於頻繁", http.StatusTooManyRequests, nil)

	// 服務器錯誤
	ErrInternalError      = NewError(ErrCodeInternalError, "服務器內部錯誤", http.StatusInternalServerError, nil)
	ErrServiceUnavailable = NewError(ErrCodeServiceUnavailable, "服務暫時不可用", http.StatusServiceUnavailable, nil)
	ErrGatewayTimeout     = NewError(ErrCodeGatewayTimeout, "網關超時", http.StatusGatewayTimeout, nil)

	// 業務錯誤
	ErrRecipeNotFound     = NewError("RECIPE_NOT_FOUND", "找不到對應的食譜", http.StatusNotFound, nil)
	ErrInvalidImageFormat = NewError("INVALID_IMAGE_FORMAT", "無效的圖片格式", http.StatusBadRequest, nil)
	ErrInvalidImageSize   = NewError("INVALID_IMAGE_SIZE", "圖片大小超出限制", http.StatusBadRequest, nil)

	// 影像辨識服務錯誤：未設定（缺 API Key）與暫時性失敗必須分開，
	// 呼叫端才能分別回應「功能未啟用」與「稍後重試」
	ErrVisionNotReady    = NewError("VISION_NOT_READY", "影像辨識服務未設定", http.StatusServiceUnavailable, nil)
	ErrUpstreamTransient = NewError("UPSTREAM_TRANSIENT", "上游服務暫時無法使用", http.StatusBadGateway, nil)
	ErrStoreUnavailable  = NewError("STORE_UNAVAILABLE", "資料庫暫時無法使用", http.StatusServiceUnavailable, nil)
)

// ErrDocumentNotFound 文件不存在（store 驅動共用的哨兵錯誤）
var ErrDocumentNotFound = errors.New("document not found")

// IsNotFound 檢查是否為文件不存在錯誤
func IsNotFound(err error) bool {
	return errors.Is(err, ErrDocumentNotFound) || errors.Is(err, ErrRecipeNotFound)
}
