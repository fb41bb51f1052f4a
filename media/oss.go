package media

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/pkg/errors"
)

// OSSStore uploads to an Aliyun OSS bucket.
type OSSStore struct {
	bucket     *oss.Bucket
	endpoint   string
	bucketName string
	publicBase string
}

func NewOSSStore(endpoint, accessKey, secretKey, bucketName, publicBase string) (*OSSStore, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" || bucketName == "" {
		return nil, fmt.Errorf("missing OSS endpoint/access key/secret key/bucket")
	}
	client, err := oss.New(endpoint, accessKey, secretKey)
	if err != nil {
		return nil, errors.Wrap(err, "oss.New")
	}
	bkt, err := client.Bucket(bucketName)
	if err != nil {
		return nil, errors.Wrap(err, "client.Bucket")
	}
	return &OSSStore{
		bucket:     bkt,
		endpoint:   endpoint,
		bucketName: bucketName,
		publicBase: strings.TrimRight(publicBase, "/"),
	}, nil
}

func (s *OSSStore) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	if err := validKey(key); err != nil {
		return "", err
	}
	opts := []oss.Option{
		oss.WithContext(ctx),
		oss.ContentType(contentType),
		oss.ContentDisposition("inline"),
		oss.CacheControl("public, max-age=31536000, immutable"),
	}
	if err := s.bucket.PutObject(key, r, opts...); err != nil {
		return "", errors.Wrapf(err, "put object %s", key)
	}
	return s.PublicURL(key), nil
}

func (s *OSSStore) PublicURL(key string) string {
	if s.publicBase != "" {
		return s.publicBase + "/" + key
	}
	end := strings.TrimPrefix(strings.TrimPrefix(s.endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", s.bucketName, end, key)
}
