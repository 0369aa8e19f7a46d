// Package stegcodec hides short text messages inside ordinary files and
// recovers them, optionally protected by a password.
//
// # Overview
//
// A message is carried by one of three host formats:
//
//   - Images: one bit in the least-significant bit of every red, green
//     and blue byte. Alpha is never touched. Any format the image package
//     can decode (PNG, JPEG, GIF, BMP, TIFF, WebP) is accepted; the result
//     is always written as PNG, since lossy re-encoding would destroy the
//     payload.
//   - WAV audio: one bit in the least-significant bit of every byte of the
//     RIFF data chunk. All other bytes are copied unchanged.
//   - PDF documents: the payload is base64 encoded, prefixed with
//     STEGAPP_HIDDEN: and stored in the Subject entry of the document
//     information dictionary.
//
// Image and audio carriers use a bit frame: a 32-bit big-endian count of
// body bits followed by 16 bits per character. Characters above U+FFFF
// cannot be framed and are rejected up front.
//
// # Encryption
//
// With a non-empty password the message is sealed before embedding. A
// 256-bit key is derived with PBKDF2-HMAC-SHA256 (100,000 iterations) from
// a fresh 16-byte salt, and the message is encrypted with AES-256-GCM under
// a fresh 12-byte nonce. The embedded text is then the JSON envelope
//
//	{"s":[16 salt bytes],"iv":[12 nonce bytes],"d":[ciphertext and tag]}
//
// with every byte written as a decimal integer. ChaCha20-Poly1305 can be
// selected through Config.Cipher.
//
// # Basic Usage
//
//	codec, err := stegcodec.New(stegcodec.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//
//	artifact, err := codec.Encode(stegcodec.Carrier{Data: cover}, "meet at noon", "hunter2")
//	if err != nil {
//	    return err
//	}
//	// artifact.Data must be saved as artifact.MediaType
//
//	message, err := codec.Decode(artifact.Carrier(), "hunter2")
//
// Files on any absfs.FileSystem can be handled directly with EncodeFile,
// DecodeFile, CorruptFile and DescribeFile.
//
// # Tamper Simulation
//
// Corrupt flips exactly one bit of the hidden payload body. For encrypted
// payloads the bit lands inside the ciphertext, so decoding fails with an
// integrity error instead of returning altered text.
//
// # Errors
//
// Failures are typed so callers can react to each case:
//
//   - ValidationError: bad input (empty message, unsupported character,
//     unknown carrier)
//   - CapacityError: the frame does not fit; the carrier is left as is
//   - DetectionError: nothing hidden by this package (no frame header,
//     invalid container, no marked Subject)
//   - CorruptionError: hidden data found but malformed
//   - AuthenticationError: wrong password or tampered ciphertext
//
// Classify maps any error to an ErrorClass. Error messages never include
// passwords or recovered plaintext.
//
// # Security Considerations
//
// LSB embedding hides a message from casual inspection only. Statistical
// steganalysis can reveal its presence; use a password to keep the
// content confidential.
package stegcodec
