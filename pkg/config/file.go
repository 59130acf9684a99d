package config

import (
	"os"
	"path/filepath"

	"github.com/hyp3rd/ewrap"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// FileOptions mirrors the YAML options file accepted by FromFile.
type FileOptions struct {
	Endpoint              string            `yaml:"endpoint"`
	Insecure              *bool             `yaml:"insecure"`
	Headers               map[string]string `yaml:"headers"`
	CertificateFile       string            `yaml:"certificate_file"`
	ClientCertificateFile string            `yaml:"client_certificate_file"`
	ClientKeyFile         string            `yaml:"client_key_file"`
}

// FromFile loads programmatic overrides from a YAML file. The returned
// options slot into resolution at override priority, shadowing environment
// variables for the fields the file sets. A missing or malformed file is an
// error; certificate files referenced by it follow the usual fail-soft rule
// and are skipped when unreadable.
func FromFile(path string) ([]Option, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, ewrap.Wrapf(err, "read options file %q", path)
	}

	var raw map[string]any

	err = yaml.Unmarshal(data, &raw)
	if err != nil {
		return nil, ewrap.Wrapf(err, "unmarshal options file %q", path)
	}

	var fileOpts FileOptions

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "yaml",
		Result:           &fileOpts,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, ewrap.Wrap(err, "create options decoder")
	}

	err = decoder.Decode(raw)
	if err != nil {
		return nil, ewrap.Wrapf(err, "decode options file %q", path)
	}

	return fileOpts.Options(), nil
}

// Options converts the decoded file into resolution options.
func (fo FileOptions) Options() []Option {
	var opts []Option

	if fo.Endpoint != "" {
		opts = append(opts, WithEndpoint(fo.Endpoint))
	}

	if fo.Insecure != nil {
		opts = append(opts, withInsecureFlag(*fo.Insecure))
	}

	if len(fo.Headers) > 0 {
		opts = append(opts, WithHeaders(fo.Headers))
	}

	if pem := readOptionalPEM(fo.CertificateFile); pem != nil {
		opts = append(opts, WithServerCertificate(pem))
	}

	cert := readOptionalPEM(fo.ClientCertificateFile)
	key := readOptionalPEM(fo.ClientKeyFile)

	if cert != nil && key != nil {
		opts = append(opts, WithClientCertificates(cert, key))
	}

	return opts
}

func readOptionalPEM(path string) []byte {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil
	}

	return data
}
