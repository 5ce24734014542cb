// Package session orchestrates a multisig signing ceremony for one
// participant. It drives the participant through three rounds, each of
// which collects one value from every signer:
//
//  1. identities
//  2. signing commitments
//  3. signature shares
//
// The cryptography is done by a [Signer] (see multisig.AccountSigner);
// this package only moves values between participants and decides when a
// round is complete.
//
// # Transports
//
// Values travel over a [Transport]. [Interactive] shows the local value to
// the operator and asks them to paste each peer's value. [Relayed] submits
// to a session relay and polls it until every participant has submitted.
// The [Collector] owns the completion test and the wait between polls, so
// both transports end a round the same way: once the set holds exactly
// NumSigners values, the local value first.
//
// # Running a ceremony
//
//	t := session.NewRelayed(relay.NewClient(url), sessionID)
//	m := session.NewManager(t, prompt.NewTerminal(os.Stdin, os.Stdout))
//	res, err := session.Run(ctx, m, &multisig.AccountSigner{Service: svc}, session.StartOptions{
//		NumSigners:          3,
//		UnsignedTransaction: txHex,
//	})
//
// Starting with a known session id rejoins it: the relay's configuration
// is used and the options are ignored, so rejoining twice always yields
// the same configuration.
//
// # Cancellation
//
// Every prompt and every poll wait takes the context passed in. Cancelling
// it abandons the ceremony; a relayed session can be rejoined later.
package session
