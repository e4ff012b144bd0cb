package ingest

import (
	"context"
	"fmt"
	"io"
	"path"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Location identifies a dataset in an S3 bucket. The three CSV files are
// expected directly under the prefix.
type S3Location struct {
	Bucket string
	Prefix string
	Region string
}

// s3GetObjectAPI is the slice of the S3 client this loader needs.
type s3GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// LoadS3 fetches the dataset files from S3 using the ambient AWS credential
// chain.
func LoadS3(ctx context.Context, loc S3Location) (Dataset, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if loc.Region != "" {
		opts = append(opts, awsconfig.WithRegion(loc.Region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return Dataset{}, fmt.Errorf("load aws config: %w", err)
	}
	return loadS3WithClient(ctx, s3.NewFromConfig(cfg), loc)
}

func loadS3WithClient(ctx context.Context, client s3GetObjectAPI, loc S3Location) (Dataset, error) {
	var ds Dataset

	if err := fetchObject(ctx, client, loc, UsersFile, func(r io.Reader) error {
		users, err := ParseUsers(r)
		ds.Users = users
		return err
	}); err != nil {
		return ds, err
	}
	if err := fetchObject(ctx, client, loc, ProductsFile, func(r io.Reader) error {
		products, err := ParseProducts(r)
		ds.Products = products
		return err
	}); err != nil {
		return ds, err
	}
	if err := fetchObject(ctx, client, loc, EventsFile, func(r io.Reader) error {
		events, err := ParseEvents(r)
		ds.Events = events
		return err
	}); err != nil {
		return ds, err
	}
	return ds, nil
}

func fetchObject(ctx context.Context, client s3GetObjectAPI, loc S3Location, name string, parse func(io.Reader) error) error {
	key := path.Join(loc.Prefix, name)
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &loc.Bucket,
		Key:    &key,
	})
	if err != nil {
		return fmt.Errorf("get s3://%s/%s: %w", loc.Bucket, key, err)
	}
	defer out.Body.Close()
	if err := parse(out.Body); err != nil {
		return fmt.Errorf("parse s3://%s/%s: %w", loc.Bucket, key, err)
	}
	return nil
}
