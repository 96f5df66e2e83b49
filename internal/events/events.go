// Package events decodes "object stored" notifications sent by object storage.
package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrNoRecords is returned when a notification carries no object.
var ErrNoRecords = errors.New("notification has no object records")

// ObjectCreated identifies one stored object.
type ObjectCreated struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

// s3Notification is the S3 / MinIO event shape.
type s3Notification struct {
	Records []struct {
		EventName string `json:"eventName"`
		S3        struct {
			Bucket struct {
				Name string `json:"name"`
			} `json:"bucket"`
			Object struct {
				Key string `json:"key"`
			} `json:"object"`
		} `json:"s3"`
	} `json:"Records"`
}

// gcsNotification is the Cloud Storage object resource sent on finalize.
type gcsNotification struct {
	Bucket string `json:"bucket"`
	Name   string `json:"name"`
}

// Decode parses an S3-style or GCS-style notification body. S3 keys arrive
// URL-encoded with '+' for spaces and are decoded; GCS names are used as is.
func Decode(body []byte) ([]ObjectCreated, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse notification: %w", err)
	}

	if _, ok := probe["Records"]; ok {
		return decodeS3(body)
	}
	if _, ok := probe["name"]; ok {
		var n gcsNotification
		if err := json.Unmarshal(body, &n); err != nil {
			return nil, fmt.Errorf("failed to parse storage notification: %w", err)
		}
		if n.Name == "" {
			return nil, ErrNoRecords
		}
		return []ObjectCreated{{Bucket: n.Bucket, Key: n.Name}}, nil
	}
	return nil, ErrNoRecords
}

func decodeS3(body []byte) ([]ObjectCreated, error) {
	var n s3Notification
	if err := json.Unmarshal(body, &n); err != nil {
		return nil, fmt.Errorf("failed to parse S3 notification: %w", err)
	}

	out := make([]ObjectCreated, 0, len(n.Records))
	for _, r := range n.Records {
		if r.EventName != "" && !strings.HasPrefix(strings.TrimPrefix(r.EventName, "s3:"), "ObjectCreated") {
			continue
		}
		key, err := url.QueryUnescape(r.S3.Object.Key)
		if err != nil {
			return nil, fmt.Errorf("invalid object key %q: %w", r.S3.Object.Key, err)
		}
		if key == "" {
			continue
		}
		out = append(out, ObjectCreated{Bucket: r.S3.Bucket.Name, Key: key})
	}
	if len(out) == 0 {
		return nil, ErrNoRecords
	}
	return out, nil
}
