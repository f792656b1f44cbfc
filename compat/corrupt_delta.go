package compat

import "github.com/colpack/colpack/format"

// Historical releases of the reference writer failed to reset the
// DELTA_BYTE_ARRAY encoder's previous value between pages, so pages other
// than the first of a column chunk encode prefixes of a value that lives in
// the previous page. Such files can only be decoded by chaining each page's
// reader to the terminal state of the previous page's reader, which forces
// strictly sequential page reads.
//
// The affected producer and the release that fixed it form a maintained
// compatibility table, not a property of the format. They are variables so
// that embedders tracking additional defective producers can extend the
// policy.
var (
	// BrokenDeltaProducer is the producer whose encoder is known to have
	// carried the defect.
	BrokenDeltaProducer = "parquet-mr"

	// DeltaFixedVersion is the first release of BrokenDeltaProducer whose
	// encoder resets correctly. Any earlier version, including pre-releases
	// of this version, requires sequential reads.
	DeltaFixedVersion = SemanticVersion{Major: 1, Minor: 8, Patch: 0}
)

// RequireSequentialReads reports whether DELTA_BYTE_ARRAY pages of a file
// carrying the given created-by string must be decoded with cross-page
// chaining. An empty or unparseable string means the producer is unknown,
// which resolves to true: unknown producers are assumed defective.
//
// The decision is a file-level property: callers evaluate it once per file
// and apply it to every DELTA_BYTE_ARRAY column chunk in that file.
func RequireSequentialReads(createdBy string) bool {
	if createdBy == "" {
		return true
	}
	version, err := ParseVersion(createdBy)
	if err != nil {
		return true
	}
	return RequireSequentialReadsForVersion(&version)
}

// RequireSequentialReadsForVersion is like RequireSequentialReads for an
// already parsed identifier. A nil identifier means the producer is unknown
// and resolves to true.
func RequireSequentialReadsForVersion(version *ParsedVersion) bool {
	if version == nil {
		return true
	}
	if version.Application != BrokenDeltaProducer {
		// Other producers' encoders are not known to share the defect.
		return false
	}
	semver, err := version.SemanticVersion()
	if err != nil {
		return true
	}
	return RequireSequentialReadsForSemver(&semver)
}

// RequireSequentialReadsForSemver is like RequireSequentialReads for a file
// already known to be written by BrokenDeltaProducer at the given version.
// A nil version resolves to true.
func RequireSequentialReadsForSemver(semver *SemanticVersion) bool {
	if semver == nil {
		return true
	}
	return semver.Compare(DeltaFixedVersion) < 0
}

// EncodingRequiresSequentialReads reports whether pages using the given
// value encoding, written by the given producer, must be decoded in order.
// Only DELTA_BYTE_ARRAY is affected; every other encoding is independently
// decodable regardless of producer.
func EncodingRequiresSequentialReads(version *ParsedVersion, enc format.Encoding) bool {
	return enc == format.DeltaByteArray && RequireSequentialReadsForVersion(version)
}
