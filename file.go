package stegcodec

import (
	"io"
	"os"

	"github.com/absfs/absfs"
)

// EncodeFile reads the carrier at src from fs, hides message in it and
// writes the artifact to dst. The carrier kind is sniffed from the file
// contents.
func (c *Codec) EncodeFile(fs absfs.FileSystem, src, dst, message, password string) (*Artifact, error) {
	data, err := readFile(fs, src)
	if err != nil {
		return nil, err
	}
	artifact, err := c.Encode(Carrier{Data: data}, message, password)
	if err != nil {
		return nil, err
	}
	if err := writeFile(fs, dst, artifact.Data); err != nil {
		return nil, err
	}
	return artifact, nil
}

// DecodeFile recovers the message hidden in the file at path.
func (c *Codec) DecodeFile(fs absfs.FileSystem, path, password string) (string, error) {
	data, err := readFile(fs, path)
	if err != nil {
		return "", err
	}
	return c.Decode(Carrier{Data: data}, password)
}

// CorruptFile writes a tampered copy of the encoded file at src to dst.
func (c *Codec) CorruptFile(fs absfs.FileSystem, src, dst string) (*Artifact, error) {
	data, err := readFile(fs, src)
	if err != nil {
		return nil, err
	}
	kind, err := DetectCarrier(data)
	if err != nil {
		return nil, err
	}
	corrupted, err := c.Corrupt(&Artifact{Kind: kind, Data: data})
	if err != nil {
		return nil, err
	}
	if err := writeFile(fs, dst, corrupted.Data); err != nil {
		return nil, err
	}
	return corrupted, nil
}

// DescribeFile reports the capacity of the carrier at path.
func (c *Codec) DescribeFile(fs absfs.FileSystem, path string) (*CarrierInfo, error) {
	data, err := readFile(fs, path)
	if err != nil {
		return nil, err
	}
	return c.Describe(Carrier{Data: data})
}

func readFile(fs absfs.FileSystem, path string) ([]byte, error) {
	if err := ValidateFilePath(path); err != nil {
		return nil, err
	}
	f, err := fs.Open(path)
	if err != nil {
		return nil, NewIOError("open", path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, NewIOError("read", path, err)
	}
	return data, nil
}

func writeFile(fs absfs.FileSystem, path string, data []byte) error {
	if err := ValidateFilePath(path); err != nil {
		return err
	}
	f, err := fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return NewIOError("open", path, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return NewIOError("write", path, err)
	}
	if err := f.Close(); err != nil {
		return NewIOError("close", path, err)
	}
	return nil
}
