package obj

import (
	"context"
	"crypto/tls"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/shale-scm/shale/src/internal/cmdutil"
	"github.com/shale-scm/shale/src/internal/errors"
	"github.com/shale-scm/shale/src/internal/log"
	"github.com/shale-scm/shale/src/internal/promutil"
	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	"gocloud.dev/blob/memblob"
	"gocloud.dev/blob/s3blob"
)

// Bucket represents access to a single object storage bucket.
type Bucket = blob.Bucket

// AmazonAdvancedConfiguration is the advanced configuration for the amazon
// client, populated from the environment.
type AmazonAdvancedConfiguration struct {
	Retries     int    `env:"AMAZON_RETRIES, default=10"`
	Timeout     string `env:"AMAZON_TIMEOUT, default=5m"`
	NoVerifySSL bool   `env:"AMAZON_NO_VERIFY_SSL, default=false"`
}

func amazonHTTPClient() (*http.Client, int, error) {
	advancedConfig := &AmazonAdvancedConfiguration{}
	if err := cmdutil.Populate(advancedConfig); err != nil {
		return nil, -1, errors.Wrap(err, "creating amazon http client")
	}
	timeout, err := time.ParseDuration(advancedConfig.Timeout)
	if err != nil {
		return nil, -1, errors.Wrap(err, "creating amazon http client")
	}
	httpClient := &http.Client{Timeout: timeout}
	if advancedConfig.NoVerifySSL {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		httpClient.Transport = transport
	}
	httpClient.Transport = promutil.InstrumentRoundTripper("s3", httpClient.Transport)
	return httpClient, advancedConfig.Retries, nil
}

// Custom endpoints are needed for S3-compatible deployments; disabling ssl
// verification is needed for test deployments with self-signed certificates.
func amazonSession(ctx context.Context, objURL *ObjectStoreURL) (*session.Session, error) {
	urlParams, err := url.ParseQuery(objURL.Params)
	if err != nil {
		return nil, errors.Wrap(err, "creating amazon session")
	}
	endpoint := urlParams.Get("endpoint")
	// If unset, disableSSL will be false.
	disableSSL, _ := strconv.ParseBool(urlParams.Get("disableSSL"))
	region := urlParams.Get("region")
	httpClient, retries, err := amazonHTTPClient()
	if err != nil {
		return nil, errors.Wrap(err, "creating amazon session")
	}
	awsConfig := &aws.Config{
		Region:     aws.String(region),
		MaxRetries: aws.Int(retries),
		HTTPClient: httpClient,
		DisableSSL: aws.Bool(disableSSL),
		Logger:     log.NewAmazonLogger(ctx),
	}
	if endpoint != "" {
		awsConfig.Endpoint = aws.String(endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}
	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, errors.Wrap(err, "creating amazon session")
	}
	return sess, nil
}

// NewAmazonBucket constructs an S3 bucket from a parsed storage URL.
func NewAmazonBucket(ctx context.Context, objURL *ObjectStoreURL) (*Bucket, error) {
	sess, err := amazonSession(ctx, objURL)
	if err != nil {
		return nil, errors.Wrap(err, "amazon bucket")
	}
	blobBucket, err := s3blob.OpenBucket(ctx, sess, objURL.Bucket, nil)
	if err != nil {
		return nil, errors.Wrap(err, "amazon bucket")
	}
	return blobBucket, nil
}

// NewBucket opens the bucket a storage URL points into.
func NewBucket(ctx context.Context, objURL *ObjectStoreURL) (*Bucket, error) {
	var err error
	var bucket *Bucket
	switch objURL.Scheme {
	case Amazon:
		bucket, err = NewAmazonBucket(ctx, objURL)
	case Google:
		bucket, err = blob.OpenBucket(ctx, objURL.BucketString())
	case Local:
		root := "/" + strings.ReplaceAll(objURL.Bucket, ".", "/")
		bucket, err = fileblob.OpenBucket(root, nil)
	case Mem:
		bucket = memblob.OpenBucket(nil)
	default:
		return nil, errors.Errorf("unrecognized object store: %s", objURL.Scheme)
	}
	if err != nil {
		return nil, errors.Wrap(err, "new bucket")
	}
	return bucket, nil
}
