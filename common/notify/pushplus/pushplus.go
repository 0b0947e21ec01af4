package pushplus

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultApi = "https://www.pushplus.plus/send/"

type PushPlus struct {
	Token string
	Api   string
}

type pushPlusResp struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func New(c map[string]string) (*PushPlus, error) {
	p := &PushPlus{Token: c["pushplus_token"]}
	if p.Token == "" {
		return nil, errors.New("[PushPlus] pushplus_token is required")
	}
	return p, nil
}

func (p *PushPlus) Webhook(title string, content string) error {
	api := p.Api
	if api == "" {
		api = defaultApi
	}

	rtn := &pushPlusResp{}
	resp, err := resty.New().SetTimeout(time.Second*10).R().SetResult(rtn).SetBody(map[string]string{
		"token":   p.Token,
		"title":   title,
		"content": content,
	}).ForceContentType("application/json").Post(api)
	if err != nil {
		return fmt.Errorf("[PushPlus] %w", err)
	}

	switch rtn.Code {
	case 0:
		return fmt.Errorf("[PushPlus] %s", resp.String())
	case 200:
		return nil
	default:
		return fmt.Errorf("[PushPlus] %s", rtn.Msg)
	}
}
