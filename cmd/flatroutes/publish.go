package main

import (
	"context"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/flatroutes-dev/flatroutes/internal/errors"
	"github.com/flatroutes-dev/flatroutes/pkg/flatroutes"
	"github.com/flatroutes-dev/flatroutes/pkg/publish"
)

func publishCmd() *cobra.Command {
	var (
		routesDir string
		bucket    string
		prefix    string
		region    string
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Compile and upload the manifest to S3",
		Long: `Compile the routes directory and upload the manifest to S3.

The manifest is stored under a content-addressed key and under the
stable alias manifest.json. Credentials and region resolve through
the standard AWS configuration chain.

Examples:
  flatroutes publish --bucket my-manifests
  flatroutes publish --bucket my-manifests --prefix staging --region eu-west-1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPublish(cmd.Context(), routesDir, bucket, prefix, region)
		},
	}

	cmd.Flags().StringVarP(&routesDir, "routes", "r", "", "Routes directory (default from flatroutes.json)")
	cmd.Flags().StringVarP(&bucket, "bucket", "b", "", "Target bucket (default from flatroutes.json)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Key prefix inside the bucket (default from flatroutes.json)")
	cmd.Flags().StringVar(&region, "region", "", "Bucket region (default from the AWS config chain)")

	return cmd
}

func runPublish(ctx context.Context, routesDir, bucket, prefix, region string) error {
	cfg, err := loadConfig(routesDir)
	if err != nil {
		return err
	}

	if bucket == "" {
		bucket = cfg.Publish.Bucket
	}
	if bucket == "" {
		return errors.New("E141")
	}
	if prefix == "" {
		prefix = cfg.Publish.Prefix
	}
	if region == "" {
		region = cfg.Publish.Region
	}

	files, err := cfg.Walker().Walk()
	if err != nil {
		return errors.New("E102").
			WithDetail("Cannot scan " + cfg.RoutesPath() + ": " + err.Error())
	}
	manifest, err := flatroutes.CompileWithOptions(cfg.RoutesPath(), files, flatroutes.CompileOptions{
		Validate: true,
	})
	if err != nil {
		return errors.New("E001").Wrap(err)
	}

	var awsOpts []func(*awsconfig.LoadOptions) error
	if region != "" {
		awsOpts = append(awsOpts, awsconfig.WithRegion(region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsOpts...)
	if err != nil {
		return errors.New("E140").Wrap(err)
	}

	uploadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	store := publish.NewStore(s3.NewFromConfig(awsCfg), bucket, prefix)
	result, err := store.Publish(uploadCtx, manifest)
	if err != nil {
		return err
	}

	success("Published %d routes to s3://%s/%s", len(manifest), bucket, result.Key)
	info("alias    s3://%s/%s", bucket, result.AliasKey)
	info("checksum %s", result.Checksum)
	return nil
}
