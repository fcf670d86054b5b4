package s3

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"figcheck/internal/config"
)

func TestClientOptions_Endpoint(t *testing.T) {
	opts := clientOptions(&config.S3Config{Endpoint: "http://localhost:9000"})
	require.Len(t, opts, 1)

	var o s3.Options
	opts[0](&o)
	require.NotNil(t, o.BaseEndpoint)
	assert.Equal(t, "http://localhost:9000", *o.BaseEndpoint)
	assert.True(t, o.UsePathStyle)
}

func TestClientOptions_NoEndpoint(t *testing.T) {
	assert.Empty(t, clientOptions(&config.S3Config{}))
}

func TestReportStore_Presign(t *testing.T) {
	store, err := NewReportStore(context.Background(), &config.S3Config{
		Region:    "ap-northeast-1",
		Endpoint:  "http://localhost:9000",
		AccessKey: "minio",
		SecretKey: "minio-secret",
	})
	require.NoError(t, err)

	url, err := store.GetPresignedURL(context.Background(), "reports", "runs/t/r.csv", 600)
	require.NoError(t, err)
	assert.Contains(t, url, "http://localhost:9000/reports/runs/t/r.csv")
	assert.Contains(t, url, "X-Amz-Expires=600")
}
