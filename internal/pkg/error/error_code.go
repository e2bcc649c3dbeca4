package error

const (
	// 0 ~ 999: 成功類別
	SUCCESS = 0 // 200 OK

	// 40000 ~ 40099: 用戶請求錯誤 (400 系列)
	BAD_REQUEST_BODY   = 40000 // 400 - 無效的請求體
	BAD_REQUEST_PARAMS = 40001 // 400 - 無效的請求參數
	EMAIL_REQUIRED     = 40010 // 400 - 缺少身份（email）

	// 40200 ~ 40299: 額度錯誤 (402 系列)
	FREE_LIMIT_REACHED = 40200 // 402 - 免費額度用完

	// 40400 ~ 40499: 資源錯誤 (404 系列)
	NOT_FOUND = 40400 // 404 - 資源未找到

	// 41300: 請求體過大
	PAYLOAD_TOO_LARGE = 41300 // 413 - 超過 APP.MAX_BODY_BYTES

	// 50000 ~ 50199: 伺服器內部錯誤 (500 系列)
	INTERNAL_ERROR      = 50000 // 500 - 內部錯誤
	DATABASE_ERROR      = 50001 // 500 - 使用量儲存錯誤
	SERVICE_UNAVAILABLE = 50002 // 503 - 服務暫停

	// 50100 ~ 50199: 外部服務錯誤（對外仍回 500）
	GENERATION_FAILED = 50100 // 500 - 生成服務失敗
	RENDER_FAILED     = 50101 // 500 - 渲染服務失敗
)

// 對外穩定的錯誤字串
const (
	MsgBadRequest       = "BAD_REQUEST"
	MsgEmailRequired    = "EMAIL_REQUIRED"
	MsgFreeLimitReached = "FREE_LIMIT_REACHED"
	MsgNotFound         = "NOT_FOUND"
	MsgPayloadTooLarge  = "PAYLOAD_TOO_LARGE"
	MsgServerError      = "SERVER_ERROR"
	MsgGenerationFailed = "GENERATION_FAILED"
	MsgRenderFailed     = "RENDER_FAILED"
	MsgUnavailable      = "SERVICE_UNAVAILABLE"
)
