package honk

import "errors"

// Verification failures are deterministic: the same inputs always fail the
// same way, so none of these are retryable. Length errors mean malformed
// input, protocol-check errors mean an invalid proof, and a subgroup
// collision signals an adversarial or degenerate transcript.
var (
	// ErrProofLength is returned when the serialized proof length does not
	// match the closed-form size for the circuit's log-size.
	ErrProofLength = errors.New("ultrahonk: proof length does not match circuit size")

	// ErrProofEncoding is returned when a proof element is not a canonical
	// field element or a decoded point is not on the curve.
	ErrProofEncoding = errors.New("ultrahonk: proof encoding is invalid")

	// ErrPublicInputsLength is returned when the public input count does
	// not match the verification key.
	ErrPublicInputsLength = errors.New("ultrahonk: wrong number of public inputs")

	// ErrSumcheckFailed is returned on any per-round univariate mismatch or
	// on the final evaluation mismatch.
	ErrSumcheckFailed = errors.New("ultrahonk: sumcheck failed")

	// ErrShpleminiFailed is returned when the batched opening argument or
	// its pairing check fails.
	ErrShpleminiFailed = errors.New("ultrahonk: shplemini opening failed")

	// ErrGeminiChallengeInSubgroup is returned when the gemini challenge
	// coincides with a small-subgroup element, which would zero the
	// vanishing polynomial of the consistency check.
	ErrGeminiChallengeInSubgroup = errors.New("ultrahonk: gemini challenge lies in the small subgroup")

	// ErrConsistencyFailed is returned when the libra small-subgroup
	// identity does not hold.
	ErrConsistencyFailed = errors.New("ultrahonk: libra consistency check failed")

	// ErrInvalidVerificationKey is returned when a verification key fails
	// structural validation.
	ErrInvalidVerificationKey = errors.New("ultrahonk: invalid verification key")
)
