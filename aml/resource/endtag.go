package resource

import (
	"github.com/joshuapare/amlkit/aml"
	"github.com/joshuapare/amlkit/internal/format"
)

// EndTag builds the terminating record of a resource list. The checksum
// byte is taken as given, zero by convention, and never recomputed. When
// nameOp is supplied its resource list must still be empty; the end tag
// goes to the tail and stays last.
func EndTag(checksum byte, nameOp *aml.ObjectNode) (*aml.DataNode, error) {
	record, err := aml.NewResourceData([]byte{format.EndTagDesc, checksum})
	if err != nil {
		return nil, err
	}
	if nameOp == nil {
		return record, nil
	}
	if err := aml.AppendEndTag(nameOp, record); err != nil {
		aml.DeleteTree(record)
		return nil, err
	}
	return record, nil
}
