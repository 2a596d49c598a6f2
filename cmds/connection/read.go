package connection

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/findy-network/findy-agent-vcx/agent/cloud"
	"github.com/findy-network/findy-agent-vcx/cmds"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

type ReadCmd struct {
	cmds.Cmd
	ID string

	// All reads acknowledged messages too, not only the fresh ones.
	All bool

	// Ack marks the read messages processed on the relay.
	Ack bool
}

func (c ReadCmd) Validate() error {
	if err := c.Cmd.Validate(); err != nil {
		return err
	}
	if c.ID == "" {
		return errors.New("connection id cannot be empty")
	}
	return nil
}

type ReadResult struct {
	Messages []cloud.Message `json:"messages"`
}

func (r ReadResult) JSON() ([]byte, error) {
	return json.Marshal(&r)
}

// Exec downloads the relationship's queued messages from the relay and
// prints them.
func (c ReadCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	defer err2.Handle(&err, "read messages")

	try.To(c.Setup())
	defer c.Cmd.Close()

	conf := c.ConnConfig("", false)
	conn := try.To1(cmds.FindConnection(conf, c.ID))

	statusCodes := []string{cloud.MsgStatusReceived}
	if c.All {
		statusCodes = nil
	}
	msgs := try.To1(conn.DownloadMessages(statusCodes, nil))

	for _, m := range msgs {
		cmds.Fprintf(w, "%s [%s]: %s\n", m.UID, m.StatusCode, m.Msg)
		if c.Ack && m.StatusCode == cloud.MsgStatusReceived {
			try.To(conn.AckMessage(m.UID))
		}
	}
	return &ReadResult{Messages: msgs}, nil
}
