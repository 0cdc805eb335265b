// Package domainobjs defines the MACI domain objects shared by the client,
// the verifier contracts and the circuits: key pairs, commands, encrypted
// messages and state leaves. Every object can be viewed as a fixed-order
// vector of BN254 field elements and the encodings here are the canonical
// ones; any change breaks proof verification.
//
// Objects are values. Constructors copy their inputs and every accessor or
// Copy method returns independent storage, so instances can be shared
// without aliasing their big integers.
package domainobjs
