package config

import (
	"context"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-api/errs"
)

// NewSSMClient builds a Parameter Store client from the default AWS credential chain
func NewSSMClient(ctx context.Context) (*ssm.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, errs.NewConfigError("aws", err)
	}
	return ssm.NewFromConfig(awsCfg), nil
}

// OverlaySSM copies every parameter under prefix into env, keyed by the last path segment.
// /portfolio/prod/EMAIL_PASS overrides EMAIL_PASS. Values already in env are replaced.
func OverlaySSM(ctx context.Context, client ssm.GetParametersByPathAPIClient, prefix string, env map[string]string) (int, error) {
	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(prefix),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})

	applied := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return applied, errs.NewServiceUnreachableError("ssm", err)
		}
		for _, p := range page.Parameters {
			if p.Name == nil || p.Value == nil {
				continue
			}
			key := path.Base(*p.Name)
			env[key] = *p.Value
			applied++
		}
	}

	log.Info().Str("prefix", prefix).Int("parameters", applied).Msg("applied ssm parameter overlay")
	return applied, nil
}
