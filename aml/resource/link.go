package resource

import (
	"github.com/joshuapare/amlkit/aml"
)

// link hands the finished record to the caller and, when nameOp is given,
// appends it to the node's resource list first. On append failure the
// record is released before the error propagates.
func link(record *aml.DataNode, nameOp *aml.ObjectNode) (*aml.DataNode, error) {
	if nameOp == nil {
		return record, nil
	}
	if err := aml.AppendResource(nameOp, record); err != nil {
		aml.DeleteTree(record)
		return nil, err
	}
	return record, nil
}
