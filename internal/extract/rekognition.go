package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

type detectTextAPI interface {
	DetectText(ctx context.Context, params *rekognition.DetectTextInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectTextOutput, error)
}

// Rekognition reads label images with AWS Rekognition DetectText.
type Rekognition struct {
	client detectTextAPI
}

// NewRekognition loads the default AWS credential chain for region.
func NewRekognition(ctx context.Context, region string) (*Rekognition, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &Rekognition{client: rekognition.NewFromConfig(cfg)}, nil
}

// ExtractText implements Extractor. Detected lines are joined in the order
// Rekognition reports them.
func (r *Rekognition) ExtractText(ctx context.Context, doc Document) (string, error) {
	if doc.MIMEType != MIMEJPEG && doc.MIMEType != MIMEPNG {
		return "", fmt.Errorf("%w: rekognition reads jpeg and png, got %s", ErrUnsupported, doc.MIMEType)
	}
	out, err := r.client.DetectText(ctx, &rekognition.DetectTextInput{
		Image: &types.Image{Bytes: doc.Data},
	})
	if err != nil {
		return "", fmt.Errorf("rekognition detect text: %w", err)
	}

	lines := make([]string, 0, len(out.TextDetections))
	for _, detection := range out.TextDetections {
		if detection.Type != types.TextTypesLine {
			continue
		}
		if text := strings.TrimSpace(aws.ToString(detection.DetectedText)); text != "" {
			lines = append(lines, text)
		}
	}
	return strings.Join(lines, "\n"), nil
}
