package translation

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/translate"
)

// AutoDetect asks the engine to detect the source language.
const AutoDetect = "auto"

// Engine translates text between languages.
type Engine interface {
	Translate(ctx context.Context, text, sourceLanguage, targetLanguage string) (string, error)
}

// TranslateAPI is the subset of *translate.Client used by AWSEngine.
type TranslateAPI interface {
	TranslateText(ctx context.Context, params *translate.TranslateTextInput, optFns ...func(*translate.Options)) (*translate.TranslateTextOutput, error)
}

var _ TranslateAPI = (*translate.Client)(nil)

// AWSEngine is an Engine backed by Amazon Translate.
type AWSEngine struct {
	client TranslateAPI
}

func NewAWSEngine(client TranslateAPI) *AWSEngine {
	return &AWSEngine{client: client}
}

func (e *AWSEngine) Translate(ctx context.Context, text, sourceLanguage, targetLanguage string) (string, error) {
	out, err := e.client.TranslateText(ctx, &translate.TranslateTextInput{
		Text:               aws.String(text),
		SourceLanguageCode: aws.String(sourceLanguage),
		TargetLanguageCode: aws.String(targetLanguage),
	})
	if err != nil {
		return "", fmt.Errorf("translate text to %s: %w", targetLanguage, err)
	}
	return aws.ToString(out.TranslatedText), nil
}
