package model

// 请求/响应数据结构
//
// 校验规则写在 vd 标签里，由 BindAndValidate 统一执行，按字段顺序返回首条失败信息
type (
	// UpdateProfileReq 字段均可选，未传的字段保持原值
	UpdateProfileReq struct {
		Nickname  *string `json:"nickname,omitempty" vd:"$==nil||mblen($)<=50; msg:'昵称长度不能超过50'"`
		AvatarURL *string `json:"avatarUrl,omitempty"`
		Phone     *string `json:"phone,omitempty" vd:"$==nil||regexp('^1[3-9]\\d{9}$'); msg:'手机号格式不正确'"`
	}

	LoginReq struct {
		OpenID    string `json:"openId" vd:"len($)>0; msg:'openId不能为空'"`
		Nickname  string `json:"nickname" vd:"mblen($)<=50; msg:'昵称长度不能超过50'"`
		AvatarURL string `json:"avatarUrl"`
	}

	// UserRes 昵称、头像按存储值输出；手机号未绑定时为 null
	UserRes struct {
		UserID    int64   `json:"userId"`
		Nickname  string  `json:"nickname"`
		AvatarURL string  `json:"avatarUrl"`
		Phone     *string `json:"phone"`
	}

	LoginRes struct {
		Token    string  `json:"token"`
		ExpireAt int64   `json:"expireAt"` // 毫秒时间戳
		User     UserRes `json:"user"`
	}
)

func NewUserRes(userID int64, nickname, avatarURL, phone string) UserRes {
	res := UserRes{
		UserID:    userID,
		Nickname:  nickname,
		AvatarURL: avatarURL,
	}
	// 空手机号无法通过格式校验，存储层以 NULL 表示未绑定
	if phone != "" {
		res.Phone = &phone
	}
	return res
}
