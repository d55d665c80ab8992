package service

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/altibbe/transparency-api/internal/config"
)

// ArchiveService stores rendered report documents in S3-compatible storage
// using AWS Signature V4. Archival is best-effort: when it is disabled or
// fails, the report simply keeps a null pdf_url.
type ArchiveService struct {
	bucket          string
	region          string
	endpoint        string
	accessKeyID     string
	secretAccessKey string
}

// NewArchiveService creates a new archive service. Returns a disabled service
// when credentials are not configured.
func NewArchiveService(cfg *config.ArchiveConfig) *ArchiveService {
	if cfg == nil {
		return &ArchiveService{}
	}
	return &ArchiveService{
		bucket:          cfg.Bucket,
		region:          cfg.Region,
		endpoint:        cfg.Endpoint,
		accessKeyID:     cfg.AccessKeyID,
		secretAccessKey: cfg.SecretAccessKey,
	}
}

// objectHostPath resolves the request host and path for a key. A non-empty
// endpoint switches to path-style addressing for S3-compatible stores.
func (s *ArchiveService) objectHostPath(key string) (string, string) {
	if s.endpoint != "" {
		return s.endpoint, "/" + s.bucket + "/" + key
	}
	return fmt.Sprintf("%s.s3.%s.amazonaws.com", s.bucket, s.region), "/" + key
}

// Enabled reports whether upload credentials are configured.
func (s *ArchiveService) Enabled() bool {
	return s.accessKeyID != "" && s.secretAccessKey != ""
}

// StoreReport uploads the rendered document for a report and returns its URL.
func (s *ArchiveService) StoreReport(ctx context.Context, reportID string, doc []byte) (string, error) {
	key := fmt.Sprintf("reports/%s/transparency-report.html", reportID)
	return s.uploadFile(ctx, key, doc, "text/html; charset=utf-8")
}

// uploadFile uploads a file using AWS Signature V4.
func (s *ArchiveService) uploadFile(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if !s.Enabled() {
		return "", fmt.Errorf("archive credentials not configured")
	}

	host, path := s.objectHostPath(key)
	url := "https://" + host + path

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	now := time.Now().UTC()
	amzDate := now.Format("20060102T150405Z")
	dateStamp := now.Format("20060102")
	payloadHash := sha256Hex(data)

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Content-Length", fmt.Sprintf("%d", len(data)))
	req.Header.Set("Host", host)
	req.Header.Set("X-Amz-Date", amzDate)
	req.Header.Set("X-Amz-Content-Sha256", payloadHash)

	authorization := s.signRequest(req, payloadHash, amzDate, dateStamp)
	req.Header.Set("Authorization", authorization)

	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to upload report document")
		return "", fmt.Errorf("failed to upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		log.Error().
			Str("key", key).
			Int("status", resp.StatusCode).
			Str("response", string(body)).
			Msg("report archive upload failed")
		return "", fmt.Errorf("archive upload failed: %s", string(body))
	}

	log.Info().Str("key", key).Msg("report document archived")
	return s.ObjectURL(key), nil
}

// signRequest creates the AWS Signature V4 authorization header.
func (s *ArchiveService) signRequest(req *http.Request, payloadHash, amzDate, dateStamp string) string {
	service := "s3"

	canonicalURI := req.URL.Path
	if canonicalURI == "" {
		canonicalURI = "/"
	}
	canonicalQueryString := ""

	signedHeaders := []string{"content-type", "host", "x-amz-content-sha256", "x-amz-date"}
	sort.Strings(signedHeaders)

	var canonicalHeaders strings.Builder
	for _, h := range signedHeaders {
		canonicalHeaders.WriteString(strings.ToLower(h))
		canonicalHeaders.WriteString(":")
		canonicalHeaders.WriteString(strings.TrimSpace(req.Header.Get(h)))
		canonicalHeaders.WriteString("\n")
	}

	signedHeadersStr := strings.Join(signedHeaders, ";")

	canonicalRequest := fmt.Sprintf("%s\n%s\n%s\n%s\n%s\n%s",
		req.Method,
		canonicalURI,
		canonicalQueryString,
		canonicalHeaders.String(),
		signedHeadersStr,
		payloadHash,
	)

	algorithm := "AWS4-HMAC-SHA256"
	credentialScope := fmt.Sprintf("%s/%s/%s/aws4_request", dateStamp, s.region, service)
	stringToSign := fmt.Sprintf("%s\n%s\n%s\n%s",
		algorithm,
		amzDate,
		credentialScope,
		sha256Hex([]byte(canonicalRequest)),
	)

	kDate := hmacSHA256([]byte("AWS4"+s.secretAccessKey), []byte(dateStamp))
	kRegion := hmacSHA256(kDate, []byte(s.region))
	kService := hmacSHA256(kRegion, []byte(service))
	kSigning := hmacSHA256(kService, []byte("aws4_request"))

	signature := hex.EncodeToString(hmacSHA256(kSigning, []byte(stringToSign)))

	return fmt.Sprintf("%s Credential=%s/%s, SignedHeaders=%s, Signature=%s",
		algorithm,
		s.accessKeyID,
		credentialScope,
		signedHeadersStr,
		signature,
	)
}

// ObjectURL returns the public URL for an archived object.
func (s *ArchiveService) ObjectURL(key string) string {
	host, path := s.objectHostPath(key)
	return "https://" + host + path
}

// sha256Hex computes SHA256 hash and returns hex string
func sha256Hex(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// hmacSHA256 computes HMAC-SHA256
func hmacSHA256(key, data []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(data)
	return h.Sum(nil)
}
