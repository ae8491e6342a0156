package models

type Kind string
type Version string

const (
	V1Beta1 Version = Version("api.keploy.io/v1beta1")
)

const (
	BatchKind  Kind = "Batch"
	RecordKind Kind = "Record"
	FilesKind  Kind = "Files"
)

// GetVersion returns v, or V1Beta1 when v is unset.
func GetVersion(v Version) Version {
	if v == "" {
		return V1Beta1
	}
	return v
}
