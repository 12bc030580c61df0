package service

import (
	"encoding/base64"
	"encoding/json"
	"strings"

	"wps3sync/internal/config"
	"wps3sync/internal/domain"
)

// ObjectKey joins the key prefix and a path relative to the upload root with
// exactly one separator. Put, delete and every URL mode share this format.
func ObjectKey(prefix, relPath string) string {
	prefix = strings.Trim(prefix, "/")
	relPath = strings.TrimLeft(relPath, "/")
	if prefix == "" {
		return relPath
	}
	return prefix + "/" + relPath
}

// CDNToken encodes the bucket/key descriptor read by the image handler.
func CDNToken(bucket, key string) string {
	payload, _ := json.Marshal(domain.CDNPointer{Bucket: bucket, Key: key})
	return base64.StdEncoding.EncodeToString(payload)
}

// CDNURL returns <cdnBase>/<token>.
func CDNURL(cdnBase, bucket, key string) string {
	return strings.TrimRight(cdnBase, "/") + "/" + CDNToken(bucket, key)
}

// DecodeCDNToken reverses CDNToken.
func DecodeCDNToken(token string) (domain.CDNPointer, error) {
	var ptr domain.CDNPointer
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return ptr, err
	}
	err = json.Unmarshal(raw, &ptr)
	return ptr, err
}

// DirectURL returns the unsigned object URL. With a custom endpoint it is
// path-style, otherwise virtual-hosted on amazonaws.com.
func DirectURL(cfg *config.S3Config, key string) string {
	if cfg.Endpoint != "" {
		endpoint := strings.TrimRight(cfg.Endpoint, "/")
		if !strings.Contains(endpoint, "://") {
			scheme := "https://"
			if !cfg.UseSSL {
				scheme = "http://"
			}
			endpoint = scheme + endpoint
		}
		return endpoint + "/" + cfg.Bucket + "/" + key
	}
	if cfg.Region == "" || cfg.Region == "us-east-1" {
		return "https://" + cfg.Bucket + ".s3.amazonaws.com/" + key
	}
	return "https://" + cfg.Bucket + ".s3." + cfg.Region + ".amazonaws.com/" + key
}
