/*
Package protocol is package for Aries protocol state machines. The machines
implement the actual protocol state transitions. The protocol specific message
implementations are located in std package. Exchange persistence is in
agent/psm which includes the sealed representatives for machine state.

These packages include the dynamic logic of the protocol state machines. When
new implementations of the protocols are needed they are put here.
*/
package protocol
