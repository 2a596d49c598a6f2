/*
Package cmds implements the command abstraction of the CLI. Commands are
structs that carry their arguments, know how to Validate them, and Exec
against the local stores and the configured relay. The cmd package binds
them to cobra, tests drive them directly.
*/
package cmds

import (
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/findy-network/findy-agent-vcx/agent/cloud"
	"github.com/findy-network/findy-agent-vcx/agent/psm"
	"github.com/findy-network/findy-agent-vcx/agent/ssi"
	"github.com/findy-network/findy-agent-vcx/agent/utils"
	"github.com/findy-network/findy-agent-vcx/enclave"
	"github.com/findy-network/findy-agent-vcx/protocol/connection"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// data key is an AEAD key in hex
const dataKeyLength = 64

var ErrInvalid = errors.New("invalid command, check arguments")

// Cmd carries the options every command needs: where the local stores
// live, the key they are opened with, and the relay to talk to.
type Cmd struct {
	DataDir   string `cmd_usage:"data dir is required"`
	DataKey   string `cmd_usage:"data key is required"`
	AgencyURL string `cmd_usage:"agency url is required"`
}

func (c Cmd) Validate() error {
	if c.DataDir == "" {
		return errors.New("data dir cannot be empty")
	}
	if err := c.ValidateDataKey(); err != nil {
		return err
	}
	if c.AgencyURL == "" {
		return errors.New("agency url cannot be empty")
	}
	return nil
}

func (c Cmd) ValidateDataKey() error {
	return ValidateKey(c.DataKey)
}

func ValidateKey(k string) error {
	if k == "" {
		return errors.New("data key cannot be empty")
	}
	if len(k) != dataKeyLength {
		return errors.New("data key is not valid")
	}
	if _, err := hex.DecodeString(k); err != nil {
		return errors.New("data key is not valid")
	}
	return nil
}

// Setup opens the enclave and the exchange store and points the relay
// client to the configured agency. Callers must Close when done.
func (c Cmd) Setup() (err error) {
	defer err2.Handle(&err, "cmd setup")

	utils.Settings.SetAgencyURL(c.AgencyURL)
	utils.Settings.SetDataPath(c.DataDir)
	try.To(enclave.InitSealedBox(filepath.Join(c.DataDir, "enclave.bolt")))
	try.To(psm.OpenStore(c.DataKey, "exchanges", c.DataDir))
	return nil
}

// Close releases the stores opened by Setup.
func (c Cmd) Close() {
	defer err2.Catch(err2.Err(func(err error) {
		glog.Error(err)
	}))

	try.To(psm.CloseStore())
	enclave.Close()
}

// ConnConfig is the protocol configuration commands run connections
// with: dev wallet for pairwise keys, relay client against the
// configured agency.
func (c Cmd) ConnConfig(label string, autohop bool) connection.Config {
	return connection.Config{
		Label:   label,
		Autohop: autohop,
		Wallet:  ssi.NewDevWallet(),
		Relay:   cloud.New(),
	}
}

// FindConnection loads the stored connection with the source id.
func FindConnection(
	conf connection.Config,
	id string,
) (
	*connection.Connection,
	error,
) {
	conns, err := connection.LoadAll(conf)
	if err != nil {
		return nil, err
	}
	for _, conn := range conns {
		if conn.SourceID() == id {
			return conn, nil
		}
	}
	return nil, fmt.Errorf("no connection with id %s", id)
}

type Result interface {
	JSON() ([]byte, error)
}

type Command interface {
	Validate() error
	Exec(w io.Writer) (r Result, err error)
}

// Fprintln is fmt.Fprintln but it allows writer to be nil. Note! it throws an
// error.
func Fprintln(w io.Writer, a ...interface{}) {
	if w != nil {
		try.To1(fmt.Fprintln(w, a...))
	}
}

// Fprintf is fmt.Fprintf but it allows writer to be nil. Note! it throws an
// error.
func Fprintf(w io.Writer, format string, a ...interface{}) {
	if w != nil {
		try.To1(fmt.Fprintf(w, format, a...))
	}
}

// Fprint is fmt.Fprint but it allows writer to be nil. Note! it throws an
// error.
func Fprint(w io.Writer, a ...interface{}) {
	if w != nil {
		try.To1(fmt.Fprint(w, a...))
	}
}

// ParseLoggingArgs parses glog startup arguments given in one string.
func ParseLoggingArgs(s string) {
	args := make([]string, 1, 12)
	args[0] = os.Args[0]
	args = append(args, strings.Split(s, " ")...)
	orgArgs := os.Args
	os.Args = args
	flag.Parse()
	os.Args = orgArgs
}

func Progress(w io.Writer) chan<- struct{} {
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-time.After(300 * time.Millisecond):
				Fprint(w, ".")
			}
		}
	}()
	return done
}
