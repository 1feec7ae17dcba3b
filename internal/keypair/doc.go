// Package keypair owns the single active key pair and everything derived
// from it.
//
// A Manager moves through one transition only: Commit. Generate, Import and
// LoadFromPersistence all end in a commit, which
//
//  1. exports both halves to PEM (PKCS#8 and SPKI),
//  2. computes both fingerprints,
//  3. persists publicPem + "\n" + privatePem under store.RecordKey,
//  4. swaps the active handles and every derived field in one step.
//
// Steps 1 and 2 run before anything is written, so a failure leaves the store
// and the visible state exactly as they were. Commits are serialized, so the
// persisted record always belongs to the visible key pair.
//
// Readers get State values, never the mutable fields, and a State always
// describes a single commit. Only the cipher service receives the handles,
// through Active.
package keypair
