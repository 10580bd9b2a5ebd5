package errors

// ErrorCode 业务错误码，按千位段划分领域
type ErrorCode struct {
	Code    int
	Message string
}

// 通用 1xxx
var (
	Success         = ErrorCode{200, "成功"}
	SystemError     = ErrorCode{1000, "系统错误"}
	ParamError      = ErrorCode{1001, "参数错误"}
	NotFound        = ErrorCode{1002, "资源不存在"}
	Unauthorized    = ErrorCode{1003, "未授权"}
	Forbidden       = ErrorCode{1004, "无权限"}
	Conflict        = ErrorCode{1005, "数据已被修改，请刷新后重试"}
	TooManyRequests = ErrorCode{1006, "请求过于频繁"}
)

// 用户相关 2xxx
var (
	UserNotFound      = ErrorCode{2001, "用户不存在"}
	UserAlreadyExists = ErrorCode{2002, "用户已存在"}
	WechatLoginFailed = ErrorCode{2003, "微信登录失败"}
	TokenInvalid      = ErrorCode{2004, "Token无效"}
	TokenExpired      = ErrorCode{2005, "Token已过期"}
)

// 家庭相关 3xxx
var (
	FamilyNotFound    = ErrorCode{3001, "家庭不存在"}
	InviteCodeInvalid = ErrorCode{3002, "邀请码无效"}
	AlreadyInFamily   = ErrorCode{3003, "已在家庭中"}
	NotFamilyMember   = ErrorCode{3004, "不是家庭成员"}
	NotFamilyCreator  = ErrorCode{3005, "不是家庭创建者"}
)

// 菜谱相关 4xxx
var (
	DishNotFound     = ErrorCode{4001, "菜谱不存在"}
	CategoryNotFound = ErrorCode{4002, "分类不存在"}
	TagNotFound      = ErrorCode{4003, "标签不存在"}
	CategoryInUse    = ErrorCode{4004, "分类正在使用中"}
	TagInUse         = ErrorCode{4005, "标签正在使用中"}
)

// 菜单相关 5xxx
var (
	MenuPlanNotFound      = ErrorCode{5001, "菜单计划不存在"}
	MenuItemNotFound      = ErrorCode{5002, "菜单项不存在"}
	MenuItemAlreadyExists = ErrorCode{5003, "菜单项已存在"}
)

// 购物清单相关 6xxx
var (
	ShoppingListNotFound = ErrorCode{6001, "购物清单不存在"}
	ShoppingItemNotFound = ErrorCode{6002, "购物项不存在"}
)

// 文件上传相关 7xxx
var (
	FileUploadFailed     = ErrorCode{7001, "文件上传失败"}
	FileTypeNotSupported = ErrorCode{7002, "文件类型不支持"}
	FileSizeExceeded     = ErrorCode{7003, "文件大小超限"}
)
