package supabase

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
)

// MaterialsBucket holds uploaded study materials.
const MaterialsBucket = "materials"

// UploadMaterial stores a study document under
// <userID>/<unixMillis>_<name> in the materials bucket and returns its
// public URL.
func (c *Client) UploadMaterial(ctx context.Context, userID, name, mimeType string, data []byte) (string, error) {
	objectPath := fmt.Sprintf("%s/%d_%s", userID, c.now().UnixMilli(), path.Base(name))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	resp, err := c.request(ctx).
		SetHeader("Content-Type", mimeType).
		SetBody(data).
		Post("/storage/v1/object/" + MaterialsBucket + "/" + escapePath(objectPath))
	if err := check("upload material", resp, err); err != nil {
		return "", err
	}
	return c.PublicURL(MaterialsBucket, objectPath), nil
}

// PublicURL is the public object URL for objectPath in bucket.
func (c *Client) PublicURL(bucket, objectPath string) string {
	return c.baseURL + "/storage/v1/object/public/" + bucket + "/" + escapePath(objectPath)
}

func escapePath(p string) string {
	segs := strings.Split(p, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}
