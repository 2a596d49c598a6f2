package vc

import (
	"testing"

	"github.com/lainio/err2/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeValue(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"int stays", "101", "101"},
		{"negative int stays", "-42", "-42"},
		{"too big for 32 bits", "2147483648",
			"26221484005389514539852548961319751347124425277437769688639924217837557266135"},
		{"string hashes", "Alice",
			"27034640024117331033063128044004318218486816931520886405535659934417438781507"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, EncodeValue(tt.raw))
		})
	}
}

func TestDevIssuerOfferAndCredential(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	issuer := &DevIssuer{}

	offer, err := issuer.CreateCredentialOffer("V4SG:3:CL:1:tag")
	require.NoError(t, err)
	require.Contains(t, offer, `"cred_def_id":"V4SG:3:CL:1:tag"`)

	_, err = issuer.CreateCredentialOffer("")
	require.Error(t, err)

	cred, credRevID, err := issuer.CreateCredential(
		offer, `{"prover_did":"ProverDID"}`,
		map[string]string{"name": "Alice", "age": "44"}, "")
	require.NoError(t, err)
	require.Empty(t, credRevID)
	require.Contains(t, cred, `"raw":"Alice"`)
	require.Contains(t, cred, `"encoded":"44"`)

	_, credRevID, err = issuer.CreateCredential(
		offer, `{}`, map[string]string{"name": "Alice"}, "revRegID")
	require.NoError(t, err)
	require.NotEmpty(t, credRevID)
}

func TestDevProverPresentation(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	prover := &DevProver{}

	request := `{"name":"proof","nonce":"123",
		"requested_attributes":{
			"attr1_referent":{"name":"name"},
			"attr2_referent":{"name":"email"}}}`
	presentation, err := prover.CreatePresentation(request,
		map[string]string{"name": "Alice"})
	require.NoError(t, err)
	require.Contains(t, presentation, `"raw":"Alice"`)
	require.Contains(t, presentation, `"attr2_referent":""`)

	_, err = prover.CreatePresentation("not json", nil)
	require.Error(t, err)
}
