package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"
)

// duration accepts either a Go duration string ("15m") or an integer number
// of nanoseconds.
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
	default:
		return errors.New("invalid duration")
	}
	return nil
}

// JsonConfig is the file representation of Config. Keys missing from the file
// keep the values already loaded.
type JsonConfig struct {
	EndpointAddrGRPC            string   `json:"endpoint_addr_grpc"`
	DatabaseDSN                 string   `json:"database_dsn"`
	SecretKey                   string   `json:"secret_key"`
	Issuer                      string   `json:"issuer"`
	Audience                    string   `json:"audience"`
	AccessTokenValidityDuration duration `json:"access_token_validity_duration"`
	AuditBufferSize             int      `json:"audit_buffer_size"`
	AuditWriteTimeout           duration `json:"audit_write_timeout"`
	AuditDropIfFull             bool     `json:"audit_drop_if_full"`
	S3AccessKey                 string   `json:"s3_access_key"`
	S3SecretKey                 string   `json:"s3_secret_key"`
	S3Bucket                    string   `json:"s3_bucket"`
	S3Region                    string   `json:"s3_region"`
	S3BaseEndpoint              string   `json:"s3_base_endpoint"`
}

// configFilePath extracts the -c / -config value from args.
func configFilePath(args []string) string {
	var path string

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(filterArgs(args, []string{"-c", "-config", "--config"}))

	return path
}

// parseJson loads the JSON file named by -c/-config, if any, over config.
func parseJson(config *Config, args []string) error {
	path := configFilePath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := JsonConfig{
		EndpointAddrGRPC:            config.EndpointAddrGRPC,
		DatabaseDSN:                 config.DatabaseDSN,
		SecretKey:                   config.SecretKey,
		Issuer:                      config.Issuer,
		Audience:                    config.Audience,
		AccessTokenValidityDuration: duration{config.AccessTokenValidityDuration},
		AuditBufferSize:             config.AuditBufferSize,
		AuditWriteTimeout:           duration{config.AuditWriteTimeout},
		AuditDropIfFull:             config.AuditDropIfFull,
		S3AccessKey:                 config.S3AccessKey,
		S3SecretKey:                 config.S3SecretKey,
		S3Bucket:                    config.S3Bucket,
		S3Region:                    config.S3Region,
		S3BaseEndpoint:              config.S3BaseEndpoint,
	}

	if err := json.Unmarshal(file, &c); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	config.EndpointAddrGRPC = c.EndpointAddrGRPC
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.Issuer = c.Issuer
	config.Audience = c.Audience
	config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	config.AuditBufferSize = c.AuditBufferSize
	config.AuditWriteTimeout = c.AuditWriteTimeout.Duration
	config.AuditDropIfFull = c.AuditDropIfFull
	config.S3AccessKey = c.S3AccessKey
	config.S3SecretKey = c.S3SecretKey
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint

	return nil
}
