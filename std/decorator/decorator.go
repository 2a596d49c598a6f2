// Package decorator implements Aries message decorators: threading and
// attachments. These are shared by every protocol message in the std packages.
package decorator

// Thread is the ~thread decorator which correlates all messages of one
// protocol exchange. ID is the thread id, established by the message that
// starts the exchange. PID is the optional parent thread id.
type Thread struct {
	ID             string         `json:"thid,omitempty"`
	PID            string         `json:"pthid,omitempty"`
	SenderOrder    int            `json:"sender_order,omitempty"`
	ReceivedOrders map[string]int `json:"received_orders,omitempty"`
}

// PleaseAck is the ~please_ack decorator: the sender asks the receiver
// to acknowledge the message when it has been processed.
type PleaseAck struct {
	On []string `json:"on,omitempty"`
}

// Attachment is an appended message payload, mostly base64 coded JSON.
type Attachment struct {
	ID          string         `json:"@id,omitempty"`
	Description string         `json:"description,omitempty"`
	FileName    string         `json:"filename,omitempty"`
	MimeType    string         `json:"mime-type,omitempty"`
	LastModTime string         `json:"lastmod_time,omitempty"`
	ByteCount   int64          `json:"byte_count,omitempty"`
	Data        AttachmentData `json:"data,omitempty"`
}

// AttachmentData contains attachment payload in one of its supported forms.
type AttachmentData struct {
	SHA256 string `json:"sha256,omitempty"`
	Links  string `json:"links,omitempty"`
	Base64 string `json:"base64,omitempty"`
	JSON   string `json:"json,omitempty"`
}
