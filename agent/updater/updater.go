/*
Package updater advances stored protocol exchanges. One round loads
every persisted connection, folds whatever its relay queue holds, and
then runs the credential and proof machines that ride those
connections. The service mode schedules rounds on an interval, the CLI
runs single rounds on demand.
*/
package updater

import (
	"time"

	"github.com/findy-network/findy-agent-vcx/agent/vc"
	"github.com/findy-network/findy-agent-vcx/protocol/connection"
	"github.com/findy-network/findy-agent-vcx/protocol/issuecredential"
	"github.com/findy-network/findy-agent-vcx/protocol/presentproof"
	"github.com/go-co-op/gocron"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// Config carries what a round needs: the connection configuration the
// stored exchanges load with, and the anoncreds implementations of the
// roles this agent serves. A nil Issuer or Prover leaves that bucket
// alone.
type Config struct {
	ConnConf connection.Config
	Issuer   vc.Issuer
	Prover   vc.Prover
}

// Updater runs update rounds, on demand or on a schedule.
type Updater struct {
	conf Config
	cron *gocron.Scheduler
}

func New(conf Config) *Updater {
	return &Updater{
		conf: conf,
		cron: gocron.NewScheduler(time.Now().Location()),
	}
}

// RoundStats counts the machines one round advanced.
type RoundStats struct {
	Connections int
	Issuances   int
	Proofs      int
}

func (s RoundStats) Changed() int {
	return s.Connections + s.Issuances + s.Proofs
}

// Round runs one update over everything in the store. Connections with
// an exchange in flight go first, then the credential and proof
// machines, matched to their connections by source id. A machine that
// fails to update is logged and skipped so one stuck exchange cannot
// block the rest; the returned error covers store access only.
func (u *Updater) Round() (stats RoundStats, err error) {
	defer err2.Handle(&err, "update round")

	conns := try.To1(connection.LoadAll(u.conf.ConnConf))
	byID := make(map[string]*connection.Connection, len(conns))
	for _, c := range conns {
		byID[c.SourceID()] = c
		if !c.NeedsMessage() {
			continue
		}
		before := c.State()
		send := u.conf.ConnConf.Relay.Sender(c.Pairwise())
		if updErr := c.UpdateState(send); updErr != nil {
			glog.Warningln("connection update:", c.SourceID(), updErr)
			continue
		}
		if c.State() != before {
			try.To(c.Save())
			stats.Connections++
		}
	}

	if u.conf.Issuer != nil {
		issuers := try.To1(issuecredential.LoadAllIssuers(u.conf.Issuer))
		for _, i := range issuers {
			if stepIssuer(i, byID[i.SourceID()]) {
				try.To(i.Save())
				stats.Issuances++
			}
		}
	}

	if u.conf.Prover != nil {
		provers := try.To1(presentproof.LoadAllProvers(u.conf.Prover))
		for _, p := range provers {
			if stepProver(p, byID[p.SourceID()]) {
				try.To(p.Save())
				stats.Proofs++
			}
		}
	}
	return stats, nil
}

func stepIssuer(i *issuecredential.Issuer, conn *connection.Connection) (changed bool) {
	if i.IsTerminal() {
		return false
	}
	if conn == nil {
		glog.Warningln("issuance without a connection:", i.SourceID())
		return false
	}
	before := i.State()
	s, err := i.UpdateState(conn)
	if err != nil {
		glog.Warningln("issuance update:", i.SourceID(), err)
		return false
	}
	return s != before
}

func stepProver(p *presentproof.Prover, conn *connection.Connection) (changed bool) {
	if p.IsTerminal() {
		return false
	}
	if conn == nil {
		glog.Warningln("proof without a connection:", p.SourceID())
		return false
	}
	before := p.State()
	s, err := p.UpdateState(conn)
	if err != nil {
		glog.Warningln("proof update:", p.SourceID(), err)
		return false
	}
	return s != before
}

// Start schedules rounds on the interval and returns immediately.
func (u *Updater) Start(interval time.Duration) (err error) {
	defer err2.Handle(&err, "start updater")

	try.To1(u.cron.Every(interval).Do(func() {
		stats, roundErr := u.Round()
		if roundErr != nil {
			glog.Warningln("update round:", roundErr)
			return
		}
		if stats.Changed() > 0 {
			glog.V(1).Infof("update round advanced %d machines", stats.Changed())
		}
	}))
	u.cron.StartAsync()
	return nil
}

// Stop ends the schedule. Safe to call without Start.
func (u *Updater) Stop() {
	u.cron.Stop()
}
