package translate

import (
	"context"
	"fmt"
	"time"

	"github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common"
	"github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common/profile"
	tmt "github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/tmt/v20180321"
)

// TextTranslateClient is the part of the TMT client used here.
type TextTranslateClient interface {
	TextTranslateWithContext(ctx context.Context, request *tmt.TextTranslateRequest) (*tmt.TextTranslateResponse, error)
}

// Tencent is the keyed Tencent Cloud machine translation service.
type Tencent struct {
	client TextTranslateClient
}

func NewTencent(secretID, secretKey, region string, timeout time.Duration) (*Tencent, error) {
	credential := common.NewCredential(secretID, secretKey)
	cpf := profile.NewClientProfile()
	cpf.HttpProfile.Endpoint = "tmt.tencentcloudapi.com"
	if secs := int(timeout.Seconds()); secs > 0 {
		cpf.HttpProfile.ReqTimeout = secs
	}

	client, err := tmt.NewClient(credential, region, cpf)
	if err != nil {
		return nil, fmt.Errorf("failed to create tencent client: %w", err)
	}

	return &Tencent{client: client}, nil
}

func (t *Tencent) Name() string { return "tencent" }

func (t *Tencent) Translate(ctx context.Context, text, target string) (string, error) {
	request := tmt.NewTextTranslateRequest()
	request.SourceText = common.StringPtr(text)
	request.Source = common.StringPtr("auto")
	request.Target = common.StringPtr(baseLanguage(target))
	request.ProjectId = common.Int64Ptr(0)

	response, err := t.client.TextTranslateWithContext(ctx, request)
	if err != nil {
		return "", fmt.Errorf("tencent request failed: %w", err)
	}

	if response == nil || response.Response == nil || response.Response.TargetText == nil {
		return "", ErrNoTranslation
	}

	return *response.Response.TargetText, nil
}
