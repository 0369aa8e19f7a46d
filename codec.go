package stegcodec

import (
	"fmt"

	"github.com/google/uuid"
)

// Codec is the entry point: it frames, optionally encrypts, and dispatches
// to the carrier adapter. A Codec holds no per-call state and is safe for
// concurrent use.
type Codec struct {
	config   *Config
	provider CryptoProvider
}

// New creates a codec from config
func New(config *Config) (*Codec, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	provider := config.Provider
	if provider == nil {
		provider = NewDefaultCryptoProvider(config)
	}

	return &Codec{
		config:   config,
		provider: provider,
	}, nil
}

// adapter resolves the adapter for carrier, sniffing the kind when the
// caller left it unset.
func (c *Codec) adapter(carrier Carrier) (Adapter, error) {
	if err := ValidateBuffer(carrier.Data, "carrier", 1); err != nil {
		return nil, err
	}
	kind := carrier.Kind
	if kind == CarrierUnknown {
		detected, err := DetectCarrier(carrier.Data)
		if err != nil {
			return nil, err
		}
		kind = detected
	}
	return AdapterFor(kind)
}

// Encode hides message in carrier. With a non-empty password the message
// is sealed in an envelope first. carrier.Data is not modified.
func (c *Codec) Encode(carrier Carrier, message, password string) (*Artifact, error) {
	if message == "" {
		return nil, NewValidationError("message", message, "message cannot be empty")
	}
	if _, err := codeUnits(message); err != nil {
		return nil, err
	}

	adapter, err := c.adapter(carrier)
	if err != nil {
		return nil, err
	}

	payload := message
	if password != "" {
		env, err := Seal(c.provider, []byte(password), []byte(message))
		if err != nil {
			return nil, err
		}
		if payload, err = env.Serialize(); err != nil {
			return nil, err
		}
	}

	data, err := adapter.Embed(carrier.Data, payload)
	if err != nil {
		return nil, err
	}

	artifact := &Artifact{
		ID:        uuid.New(),
		Kind:      adapter.Kind(),
		MediaType: adapter.MediaType(),
		Data:      data,
		Encrypted: password != "",
	}
	if adapter.Kind() != CarrierPDF {
		artifact.FrameBits, _ = FrameBits(payload)
	}
	return artifact, nil
}

// Decode recovers the message hidden in carrier. password must match the
// one given to Encode; leave it empty for unencrypted payloads.
func (c *Codec) Decode(carrier Carrier, password string) (string, error) {
	adapter, err := c.adapter(carrier)
	if err != nil {
		return "", err
	}

	payload, err := adapter.Extract(carrier.Data)
	if err != nil {
		return "", err
	}
	if password == "" {
		return payload, nil
	}

	env, err := DeserializeEnvelope(payload)
	if err != nil {
		return "", withCarrier(err, adapter.Kind())
	}
	plaintext, err := Open(c.provider, []byte(password), env)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// CapacityOf returns the carrier capacity in bits, frame header included,
// or UnboundedCapacity.
func (c *Codec) CapacityOf(carrier Carrier) (int, error) {
	adapter, err := c.adapter(carrier)
	if err != nil {
		return 0, err
	}
	return adapter.Capacity(carrier.Data)
}

// Describe reports the carrier's kind, output media type and capacity.
func (c *Codec) Describe(carrier Carrier) (*CarrierInfo, error) {
	adapter, err := c.adapter(carrier)
	if err != nil {
		return nil, err
	}
	capacity, err := adapter.Capacity(carrier.Data)
	if err != nil {
		return nil, err
	}

	info := &CarrierInfo{
		Kind:             adapter.Kind(),
		MediaType:        adapter.MediaType(),
		CapacityBits:     capacity,
		MaxMessageLength: MaxMessageLength(capacity),
	}
	if capacity == UnboundedCapacity {
		info.MaxMessageLength = UnboundedCapacity
	}
	return info, nil
}

// Rekey re-encodes the message hidden in carrier under newPassword. The
// result is built from the carrier itself, so image carriers come back
// as PNG.
func (c *Codec) Rekey(carrier Carrier, oldPassword, newPassword string) (*Artifact, error) {
	message, err := c.Decode(carrier, oldPassword)
	if err != nil {
		return nil, err
	}
	return c.Encode(carrier, message, newPassword)
}
