package completionhelp

import (
	"github.com/findy-network/findy-agent-vcx/cmds"
	"github.com/findy-network/findy-agent-vcx/protocol/connection"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// ConnectionIDs lists the source ids of the stored connections. Shell
// completion must never break the shell so every error resolves to an
// empty list.
func ConnectionIDs(c cmds.Cmd) (ids []string) {
	defer err2.Catch(err2.Err(func(err error) {
		glog.V(3).Infoln("completion:", err)
	}))

	try.To(c.Validate())
	try.To(c.Setup())
	defer c.Close()

	conns := try.To1(connection.LoadAll(c.ConnConfig("", false)))
	ids = make([]string, 0, len(conns))
	for _, conn := range conns {
		ids = append(ids, conn.SourceID())
	}
	return ids
}
