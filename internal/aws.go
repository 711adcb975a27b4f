package internal

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/gauchoracing/aamctl/internal/backend"
)

// DefaultRegion is the region the backend assumes roles in.
const DefaultRegion = "us-west-2"

// CallerIdentity is the principal STS reports for a credential set.
type CallerIdentity struct {
	Account string
	Arn     string
	UserID  string
}

// CallerIdentityAPI is the STS call VerifyCredentials needs.
type CallerIdentityAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// StaticConfig builds an AWS config that signs with the exchanged
// credentials only, ignoring shared profiles and the environment.
func StaticConfig(ctx context.Context, creds *backend.IamCredentialSet, region string) (aws.Config, error) {
	if creds == nil || creds.AccessKeyID == "" {
		return aws.Config{}, errors.New("no credentials to verify")
	}
	if region == "" {
		region = DefaultRegion
	}
	return config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			creds.AccessKeyID,
			creds.SecretAccessKey,
			creds.SessionToken,
		)),
	)
}

// VerifyCredentials asks STS who the exchanged credentials belong to.
func VerifyCredentials(ctx context.Context, creds *backend.IamCredentialSet, region string) (*CallerIdentity, error) {
	cfg, err := StaticConfig(ctx, creds, region)
	if err != nil {
		return nil, err
	}
	return callerIdentity(ctx, sts.NewFromConfig(cfg))
}

func callerIdentity(ctx context.Context, api CallerIdentityAPI) (*CallerIdentity, error) {
	out, err := api.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to verify credentials: %w", err)
	}
	return &CallerIdentity{
		Account: aws.ToString(out.Account),
		Arn:     aws.ToString(out.Arn),
		UserID:  aws.ToString(out.UserId),
	}, nil
}
