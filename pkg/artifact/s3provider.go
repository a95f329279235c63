package artifact

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Provider is a Provider backed by an S3-compatible object store. Client
// is kept as the SDK's own s3.ListObjectsV2APIClient interface so tests can
// substitute a fake instead of talking to a real bucket.
type S3Provider struct {
	Client s3.ListObjectsV2APIClient
	Bucket string
}

// NewS3Provider constructs a S3Provider. client is typically *s3.Client
// built from an aws-sdk-go-v2 Config (see cmd/ethos-core-daemon for wiring).
func NewS3Provider(client s3.ListObjectsV2APIClient, bucket string) *S3Provider {
	return &S3Provider{Client: client, Bucket: bucket}
}

func (p *S3Provider) List(ctx context.Context, prefix string) ([]Entry, error) {
	var entries []Entry
	var continuationToken *string
	for {
		out, err := p.Client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            &p.Bucket,
			Prefix:            &prefix,
			ContinuationToken: continuationToken,
		})
		if err != nil {
			return nil, err
		}
		for _, obj := range out.Contents {
			if obj.Key == nil {
				continue
			}
			e := Entry{Key: *obj.Key}
			if obj.LastModified != nil {
				e.LastModified = *obj.LastModified
			}
			entries = append(entries, e)
		}
		if out.IsTruncated == nil || !*out.IsTruncated {
			break
		}
		continuationToken = out.NextContinuationToken
	}
	return entries, nil
}

func (p *S3Provider) Get(ctx context.Context, prefix, shortSHA string) (Entry, error) {
	entries, err := p.List(ctx, prefix)
	if err != nil {
		return Entry{}, err
	}
	var match *Entry
	for i := range entries {
		commit := parseCommit(entries[i].Key)
		if commit != "" && strings.HasPrefix(commit, shortSHA) {
			if match != nil {
				return Entry{}, ErrAmbiguous
			}
			m := entries[i]
			match = &m
		}
	}
	if match == nil {
		return Entry{}, ErrNotFound
	}
	return *match, nil
}
