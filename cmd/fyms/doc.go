// Command fyms is the participant's multisig wallet: it creates
// participant identities, imports dealt key packages and takes part in
// signing ceremonies, either by copy and paste or through fyrelay.
package main
