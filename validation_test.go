package stegcodec

import (
	"errors"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr error
		invalid bool
	}{
		{
			name:   "default config",
			config: DefaultConfig(),
		},
		{
			name:   "zero KDF uses defaults",
			config: &Config{Cipher: CipherChaCha20Poly1305},
		},
		{
			name:    "nil config",
			config:  nil,
			wantErr: ErrNilConfig,
		},
		{
			name:    "unsupported cipher",
			config:  &Config{Cipher: CipherSuite(99)},
			wantErr: ErrUnsupportedCipher,
		},
		{
			name:    "negative iterations",
			config:  &Config{KDF: PBKDF2Params{Iterations: -1}},
			invalid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()

			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
				}
			case tt.invalid:
				if !IsValidationError(err) {
					t.Errorf("Validate() error = %v, want ValidationError", err)
				}
			default:
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
			}
		})
	}
}

func TestParallelConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  ParallelConfig
		wantErr bool
	}{
		{"default", DefaultParallelConfig(), false},
		{"zero values", ParallelConfig{}, false},
		{"negative workers", ParallelConfig{MaxWorkers: -1}, true},
		{"too many workers", ParallelConfig{MaxWorkers: 2000}, true},
		{"negative threshold", ParallelConfig{MinJobsForParallel: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateBuffer(t *testing.T) {
	tests := []struct {
		name    string
		buf     []byte
		minSize int
		wantErr bool
		wantNil bool
	}{
		{"nil buffer", nil, 0, true, true},
		{"empty ok", []byte{}, 0, false, false},
		{"too small", []byte{1, 2}, 4, true, false},
		{"exact", []byte{1, 2, 3, 4}, 4, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBuffer(tt.buf, "buf", tt.minSize)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateBuffer() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !IsValidationError(err) {
				t.Errorf("expected ValidationError, got %T", err)
			}
			if tt.wantNil && !errors.Is(err, ErrNilBuffer) {
				t.Errorf("expected ErrNilBuffer, got %v", err)
			}
		})
	}
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		name    string
		key     []byte
		wantErr bool
	}{
		{"nil key", nil, true},
		{"short key", make([]byte, 16), true},
		{"long key", make([]byte, 64), true},
		{"valid key", make([]byte, 32), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKey(tt.key, 32)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateKey() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidKey) {
				t.Errorf("expected ErrInvalidKey, got %v", err)
			}
		})
	}
}

func TestValidateFilePath(t *testing.T) {
	if err := ValidateFilePath(""); !IsValidationError(err) {
		t.Errorf("empty path: expected ValidationError, got %v", err)
	}
	if err := ValidateFilePath("/cover.png"); err != nil {
		t.Errorf("valid path: unexpected error %v", err)
	}
}
