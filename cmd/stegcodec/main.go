// Command stegcodec hides text in images, WAV audio and PDF documents.
//
//	stegcodec encode   -in cover.png -out secret.png -message "hi" [-password-env VAR]
//	stegcodec decode   -in secret.png [-password-env VAR]
//	stegcodec capacity -in cover.wav
//	stegcodec corrupt  -in secret.png -out tampered.png
//	stegcodec info     -in cover.wav
//
// The exit status reflects the error class: 2 invalid input, 3 capacity,
// 4 nothing hidden, 5 malformed data, 6 integrity failure, 1 anything else.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/absfs/absfs"
	"github.com/absfs/stegcodec"
)

var errUsage = errors.New("usage")

func main() {
	log.SetFlags(0)
	log.SetPrefix("stegcodec: ")

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	err := run(os.Args[1], os.Args[2:], os.Stdin, os.Stdout)
	if err == nil {
		return
	}
	if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
		os.Exit(2)
	}
	log.Printf("%v", err)
	os.Exit(exitCode(err))
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: stegcodec <encode|decode|capacity|corrupt|info> [flags]")
}

func exitCode(err error) int {
	switch stegcodec.Classify(err) {
	case stegcodec.ClassNone:
		return 0
	case stegcodec.ClassInvalidInput:
		return 2
	case stegcodec.ClassCapacity:
		return 3
	case stegcodec.ClassNotFound:
		return 4
	case stegcodec.ClassMalformed:
		return 5
	case stegcodec.ClassIntegrity:
		return 6
	default:
		return 1
	}
}

// options are the flags shared by every subcommand
type options struct {
	in          string
	out         string
	message     string
	messageFile string
	password    string
	passwordEnv string
	cipher      string
}

func (o *options) register(set *flag.FlagSet, withOut, withMessage, withPassword bool) {
	set.StringVar(&o.in, "in", "", "input carrier file")
	if withOut {
		set.StringVar(&o.out, "out", "", "output file")
	}
	if withMessage {
		set.StringVar(&o.message, "message", "", "message to hide")
		set.StringVar(&o.messageFile, "message-file", "", "read the message from this file (- for stdin)")
	}
	if withPassword {
		set.StringVar(&o.password, "password", "", "password (prefer -password-env)")
		set.StringVar(&o.passwordEnv, "password-env", "", "read the password from this environment variable")
		set.StringVar(&o.cipher, "cipher", "aes-256-gcm", "cipher suite: aes-256-gcm or chacha20-poly1305")
	}
}

func (o *options) config() (*stegcodec.Config, error) {
	config := stegcodec.DefaultConfig()
	switch o.cipher {
	case "", "aes-256-gcm":
		config.Cipher = stegcodec.CipherAES256GCM
	case "chacha20-poly1305":
		config.Cipher = stegcodec.CipherChaCha20Poly1305
	default:
		return nil, stegcodec.NewValidationError("cipher", o.cipher, "unknown cipher suite")
	}
	return config, nil
}

func (o *options) resolvePassword() (string, error) {
	if o.passwordEnv != "" {
		if o.password != "" {
			return "", stegcodec.NewValidationError("password", nil, "use either -password or -password-env")
		}
		password, err := stegcodec.PasswordFromEnv(o.passwordEnv)
		if err != nil {
			return "", &stegcodec.ValidationError{Field: "password-env", Message: err.Error(), Err: err}
		}
		return password, nil
	}
	return o.password, nil
}

func (o *options) resolveMessage(stdin io.Reader) (string, error) {
	if o.messageFile == "" {
		return o.message, nil
	}
	if o.message != "" {
		return "", stegcodec.NewValidationError("message", nil, "use either -message or -message-file")
	}

	var r io.Reader = stdin
	if o.messageFile != "-" {
		f, err := os.Open(o.messageFile)
		if err != nil {
			return "", stegcodec.NewIOError("open", o.messageFile, err)
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", stegcodec.NewIOError("read", o.messageFile, err)
	}
	return strings.TrimSuffix(string(data), "\n"), nil
}

func run(cmd string, args []string, stdin io.Reader, stdout io.Writer) error {
	var opts options
	set := flag.NewFlagSet(cmd, flag.ContinueOnError)

	switch cmd {
	case "encode":
		opts.register(set, true, true, true)
	case "decode":
		opts.register(set, false, false, true)
	case "corrupt":
		opts.register(set, true, false, false)
	case "capacity", "info":
		opts.register(set, false, false, false)
	case "help", "-h", "-help", "--help":
		usage()
		return nil
	default:
		usage()
		return errUsage
	}

	if err := set.Parse(args); err != nil {
		return err
	}
	if opts.in == "" {
		set.Usage()
		return errUsage
	}

	config, err := opts.config()
	if err != nil {
		return err
	}
	codec, err := stegcodec.New(config)
	if err != nil {
		return err
	}
	fs, err := newOSFS()
	if err != nil {
		return err
	}

	switch cmd {
	case "encode":
		return encode(codec, fs, &opts, stdin, stdout)
	case "decode":
		return decode(codec, fs, &opts, stdout)
	case "corrupt":
		return corrupt(codec, fs, &opts, stdout)
	case "capacity":
		return capacity(codec, fs, &opts, stdout)
	default:
		return info(codec, fs, &opts, stdout)
	}
}

func encode(codec *stegcodec.Codec, fs absfs.FileSystem, opts *options, stdin io.Reader, stdout io.Writer) error {
	if opts.out == "" {
		return stegcodec.NewValidationError("out", nil, "-out is required")
	}
	message, err := opts.resolveMessage(stdin)
	if err != nil {
		return err
	}
	password, err := opts.resolvePassword()
	if err != nil {
		return err
	}

	artifact, err := codec.EncodeFile(fs, opts.in, opts.out, message, password)
	if err != nil {
		return err
	}

	mode := "plaintext"
	if artifact.Encrypted {
		mode = "encrypted"
	}
	fmt.Fprintf(stdout, "wrote %s (%s, %s payload, id %s)\n", opts.out, artifact.MediaType, mode, artifact.ID)
	return nil
}

func decode(codec *stegcodec.Codec, fs absfs.FileSystem, opts *options, stdout io.Writer) error {
	password, err := opts.resolvePassword()
	if err != nil {
		return err
	}
	message, err := codec.DecodeFile(fs, opts.in, password)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, message)
	return nil
}

func corrupt(codec *stegcodec.Codec, fs absfs.FileSystem, opts *options, stdout io.Writer) error {
	if opts.out == "" {
		return stegcodec.NewValidationError("out", nil, "-out is required")
	}
	artifact, err := codec.CorruptFile(fs, opts.in, opts.out)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "wrote tampered %s (%s)\n", opts.out, artifact.MediaType)
	return nil
}

func capacity(codec *stegcodec.Codec, fs absfs.FileSystem, opts *options, stdout io.Writer) error {
	ci, err := codec.DescribeFile(fs, opts.in)
	if err != nil {
		return err
	}
	if ci.CapacityBits == stegcodec.UnboundedCapacity {
		fmt.Fprintln(stdout, "unbounded")
		return nil
	}
	fmt.Fprintf(stdout, "%d bits (%d characters)\n", ci.CapacityBits, ci.MaxMessageLength)
	return nil
}

func info(codec *stegcodec.Codec, fs absfs.FileSystem, opts *options, stdout io.Writer) error {
	ci, err := codec.DescribeFile(fs, opts.in)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "kind:       %s\n", ci.Kind)
	fmt.Fprintf(stdout, "output:     %s\n", ci.MediaType)
	if ci.CapacityBits == stegcodec.UnboundedCapacity {
		fmt.Fprintln(stdout, "capacity:   unbounded")
	} else {
		fmt.Fprintf(stdout, "capacity:   %d bits, %d characters\n", ci.CapacityBits, ci.MaxMessageLength)
	}

	if ci.Kind != stegcodec.CarrierAudio {
		return nil
	}
	f, err := fs.Open(opts.in)
	if err != nil {
		return stegcodec.NewIOError("open", opts.in, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return stegcodec.NewIOError("read", opts.in, err)
	}
	ai, err := stegcodec.InspectAudio(data)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "format:     %d-bit, %d channel(s), %d Hz\n", ai.BitsPerSample, ai.Channels, ai.SampleRate)
	fmt.Fprintf(stdout, "data chunk: %d bytes at offset %d\n", ai.DataSize, ai.DataOffset)
	fmt.Fprintf(stdout, "duration:   %s\n", ai.Duration)
	return nil
}
