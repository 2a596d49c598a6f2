package basicmessage

import (
	"errors"
	"strings"
	"time"

	"github.com/findy-network/findy-agent-vcx/std/decorator"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// ISO8601 is the sent_time format most agents emit. Some use plain
// RFC 3339, both parse.
const ISO8601 = "2006-01-02 15:04:05.999999Z"

type Basicmessage struct {
	Type     string            `json:"@type,omitempty"`
	ID       string            `json:"@id,omitempty"`
	Thread   *decorator.Thread `json:"~thread,omitempty"`
	Content  string            `json:"content"`
	SentTime AriesTime         `json:"sent_time"`
}

// AriesTime wraps time.Time with the wire formats basic message
// timestamps come in.
type AriesTime struct {
	time.Time
}

func parseTimestamp(timeStr string) (t time.Time, err error) {
	acceptedFormats := []string{ISO8601, time.RFC3339}
	for _, format := range acceptedFormats {
		if t, err = time.Parse(format, timeStr); err == nil {
			break
		}
	}
	return
}

func (at *AriesTime) UnmarshalJSON(b []byte) (err error) {
	defer err2.Handle(&err)

	t := try.To1(parseTimestamp(strings.Trim(string(b), "\"")))

	*at = AriesTime{Time: t}
	return
}

func (at AriesTime) MarshalJSON() ([]byte, error) {
	t := at.Time
	if y := t.Year(); y < 0 || y >= 10000 {
		// RFC 3339 years are 4 digits exactly
		return nil, errors.New("Time.MarshalJSON: year outside of range [0,9999]")
	}

	b := make([]byte, 0, len(ISO8601)+2)
	b = append(b, '"')
	b = t.AppendFormat(b, ISO8601)
	b = append(b, '"')
	return b, nil
}

func (at AriesTime) String() string {
	return at.Time.String()
}
