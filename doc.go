/*
Package main is the application package of findy-agent-vcx, an agent to
agent protocol engine with a command line interface. The engine runs
Aries protocol state machines over a relay transport: pairwise
connections built with the connection protocol handshake, credential
issuance, and proof presentation. The agent downloads its messages from
a relay, folds them into state transitions, and acknowledges what it
has processed, so two agents never talk to each other directly, only
through their relay queues.

You can use the repo roughly for three purposes:

1. As a library: the protocol packages expose the state machines for
connections, credential issuing, and proof presenting, and the agent
packages the relay client and stores they run on.

2. As a CLI tool for driving the machines from the command line:
creating and joining invitations, running update rounds, issuing and
revoking credentials, and answering proof requests.

3. As a development relay: the built-in relay command runs an in-memory
relay two local agents can talk through.

# Sub-packages

	agent    core packages: relay client, state machine store, anoncreds hooks
	cmd      cobra commands of the CLI
	cmds     command abstractions the CLI binds and tests drive directly
	enclave  sealed storage for pairwise key material
	protocol protocol state machines: connection, issue credential, present proof
	server   development relay
	std      Aries protocol messages
*/
package main
