/*
Package agent holds the packages the protocol state machines are built
from. The cloud.Agent is the most important abstraction of the package:
it is the agent's client to its relay, and everything a protocol moves
over the wire goes through it. Other packages like didcomm, sec and
trans offer specific services for the protocols to read, pack and
deliver their messages.

The agent package is empty itself. All the functionality is inside
sub-packages. Summary of the packages:

 aries     typed message factory, routes wire data by the @type field
 cloud     agent's client to the relay: download, send, ack
 comm      send function types shared by the protocol packages
 didcomm   DIDComm messaging interfaces
 pairwise  local identity of one agent-to-agent relationship
 pltype    payload and message type URIs
 psm       exchange store, keys protocol state by connection and thread
 sec       secure pipe for DIDComm transfers
 service   namespace for common and simple service.Addr aka agent endpoint
 ssi       DID and wallet abstractions
 storage   storage API and its bolt implementation
 trans     secure transport, binds a pipe and a relay together
 updater   scheduled update rounds over the stored exchanges
 utils     helpers for version, settings, timestamps and nonces
 vc        verifiable credential tooling: issuer, prover
*/
package agent
