package gcp

import (
	"fmt"
	"net/url"
	"strings"
)

type ObjectStorageMode string

const (
	ObjectStorageModeGCS         ObjectStorageMode = "gcs"
	ObjectStorageModeGCSEmulator ObjectStorageMode = "gcs_emulator"
)

type ObjectStorageConfigErrorCode string

const (
	ObjectStorageConfigErrorInvalidMode         ObjectStorageConfigErrorCode = "invalid_mode"
	ObjectStorageConfigErrorMissingEmulatorHost ObjectStorageConfigErrorCode = "missing_emulator_host"
	ObjectStorageConfigErrorInvalidEmulatorHost ObjectStorageConfigErrorCode = "invalid_emulator_host"
	ObjectStorageConfigErrorMissingBucket       ObjectStorageConfigErrorCode = "missing_bucket"
	ObjectStorageConfigErrorInvalidPublicBase   ObjectStorageConfigErrorCode = "invalid_public_base_url"
)

type ObjectStorageConfigError struct {
	Code  ObjectStorageConfigErrorCode
	Value string
	Cause error
}

func (e *ObjectStorageConfigError) Error() string {
	if e == nil {
		return "invalid object storage config"
	}
	switch e.Code {
	case ObjectStorageConfigErrorInvalidMode:
		return fmt.Sprintf("invalid OBJECT_STORAGE_MODE=%q (allowed: %q, %q)",
			e.Value, ObjectStorageModeGCS, ObjectStorageModeGCSEmulator)
	case ObjectStorageConfigErrorMissingEmulatorHost:
		return fmt.Sprintf("OBJECT_STORAGE_MODE=%q requires STORAGE_EMULATOR_HOST to be set", ObjectStorageModeGCSEmulator)
	case ObjectStorageConfigErrorInvalidEmulatorHost:
		return fmt.Sprintf("invalid STORAGE_EMULATOR_HOST=%q; expected absolute URL like http://fake-gcs:4443", e.Value)
	case ObjectStorageConfigErrorMissingBucket:
		return fmt.Sprintf("missing env var %s", e.Value)
	case ObjectStorageConfigErrorInvalidPublicBase:
		return fmt.Sprintf("invalid OBJECT_STORAGE_PUBLIC_BASE_URL=%q; expected absolute URL like http://localhost:4443", e.Value)
	default:
		return "invalid object storage config"
	}
}

func (e *ObjectStorageConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Config is populated from the environment by the app config loader.
type Config struct {
	Mode            ObjectStorageMode `env:"OBJECT_STORAGE_MODE"`
	EmulatorHost    string            `env:"STORAGE_EMULATOR_HOST"`
	PublicBaseURL   string            `env:"OBJECT_STORAGE_PUBLIC_BASE_URL"`
	NotesBucket     string            `env:"NOTES_GCS_BUCKET_NAME"`
	PapersBucket    string            `env:"PAPERS_GCS_BUCKET_NAME"`
	CDNDomain       string            `env:"GCS_CDN_DOMAIN"`
	CredentialsJSON string            `env:"GOOGLE_APPLICATION_CREDENTIALS_JSON"`
	CredentialsFile string            `env:"GOOGLE_APPLICATION_CREDENTIALS"`
}

// Enabled reports whether any bucket is configured at all.
func (c Config) Enabled() bool {
	return strings.TrimSpace(c.NotesBucket) != "" || strings.TrimSpace(c.PapersBucket) != ""
}

// Normalize fills the mode: an unset mode with an emulator host means the emulator.
func (c Config) Normalize() Config {
	c.EmulatorHost = strings.TrimRight(strings.TrimSpace(c.EmulatorHost), "/")
	c.PublicBaseURL = strings.TrimRight(strings.TrimSpace(c.PublicBaseURL), "/")
	c.CDNDomain = strings.Trim(strings.TrimSpace(c.CDNDomain), "/")
	c.Mode = ObjectStorageMode(strings.ToLower(strings.TrimSpace(string(c.Mode))))
	if c.Mode == "" {
		if c.EmulatorHost != "" {
			c.Mode = ObjectStorageModeGCSEmulator
		} else {
			c.Mode = ObjectStorageModeGCS
		}
	}
	return c
}

func (c Config) IsEmulatorMode() bool {
	return c.Mode == ObjectStorageModeGCSEmulator
}

// Validate expects a normalized Config.
func (c Config) Validate() error {
	switch c.Mode {
	case ObjectStorageModeGCS, ObjectStorageModeGCSEmulator:
	default:
		return &ObjectStorageConfigError{Code: ObjectStorageConfigErrorInvalidMode, Value: string(c.Mode)}
	}
	if strings.TrimSpace(c.NotesBucket) == "" {
		return &ObjectStorageConfigError{Code: ObjectStorageConfigErrorMissingBucket, Value: "NOTES_GCS_BUCKET_NAME"}
	}
	if strings.TrimSpace(c.PapersBucket) == "" {
		return &ObjectStorageConfigError{Code: ObjectStorageConfigErrorMissingBucket, Value: "PAPERS_GCS_BUCKET_NAME"}
	}
	if c.PublicBaseURL != "" && !isAbsoluteURL(c.PublicBaseURL) {
		return &ObjectStorageConfigError{Code: ObjectStorageConfigErrorInvalidPublicBase, Value: c.PublicBaseURL}
	}
	if !c.IsEmulatorMode() {
		return nil
	}
	if c.EmulatorHost == "" {
		return &ObjectStorageConfigError{Code: ObjectStorageConfigErrorMissingEmulatorHost}
	}
	if !isAbsoluteURL(c.EmulatorHost) {
		return &ObjectStorageConfigError{Code: ObjectStorageConfigErrorInvalidEmulatorHost, Value: c.EmulatorHost}
	}
	return nil
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && strings.TrimSpace(u.Scheme) != "" && strings.TrimSpace(u.Host) != ""
}
