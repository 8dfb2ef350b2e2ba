package topology

import (
	"github.com/joshuapare/amlkit/aml"
	"github.com/joshuapare/amlkit/aml/resource"
	"github.com/joshuapare/amlkit/pkg/types"
)

// stateTableRevision is the schema revision of an emitted state table.
const stateTableRevision = 1

// stateTableLevel is the level index field. Levels are not supported yet;
// the field is always emitted as 0.
const stateTableLevel = 0

// emitStateTable writes one named package per distinct power group, in
// first-seen order, under the scope:
//
//	Name (L000, Package {
//	    revision, level index, state count,
//	    Package { <state> },
//	    ...
//	})
func (b *build) emitStateTable(scope *aml.ObjectNode) error {
	for index, token := range b.table.tokens {
		name, err := aml.RoleName(tableTag, uint32(index))
		if err != nil {
			return err
		}
		pkg, err := aml.NamePackage(name, scope)
		if err != nil {
			return err
		}

		refs, err := b.provider.References(token)
		if err != nil {
			return err
		}
		if err := aml.PackageAppendInteger(pkg, stateTableRevision); err != nil {
			return err
		}
		if err := aml.PackageAppendInteger(pkg, stateTableLevel); err != nil {
			return err
		}
		if err := aml.PackageAppendInteger(pkg, uint64(len(refs))); err != nil {
			return err
		}

		for _, ref := range refs {
			state, err := b.provider.PowerState(ref)
			if err != nil {
				return err
			}
			if err := appendState(pkg, state); err != nil {
				return err
			}
		}
	}
	return nil
}

// appendState adds one state sub-package: timing and flag integers, the
// entry method, the two counter references, and the display name.
func appendState(pkg *aml.ObjectNode, state types.PowerState) error {
	sub, err := aml.Package(pkg)
	if err != nil {
		return err
	}

	for _, v := range [...]uint64{
		uint64(state.MinResidency),
		uint64(state.WakeLatency),
		uint64(state.Flags),
		uint64(state.ArchFlags),
		uint64(state.ResidencyCounterFreq),
		uint64(state.EnableParentState),
	} {
		if err := aml.PackageAppendInteger(sub, v); err != nil {
			return err
		}
	}

	switch state.Entry.Kind {
	case types.EntryRegister:
		if err := appendRegisterElement(sub, state.Entry.Register); err != nil {
			return err
		}
	default:
		if err := aml.PackageAppendInteger(sub, state.Entry.Integer); err != nil {
			return err
		}
	}

	if err := appendCounter(sub, state.ResidencyCounter); err != nil {
		return err
	}
	if err := appendCounter(sub, state.UsageCounter); err != nil {
		return err
	}
	return aml.PackageAppendString(sub, state.Name)
}

// appendCounter emits a register reference, or the integer 0 when the
// state has no counter register.
func appendCounter(pkg *aml.ObjectNode, reg *types.GenericAddress) error {
	if reg == nil {
		return aml.PackageAppendInteger(pkg, 0)
	}
	return appendRegisterElement(pkg, *reg)
}

// appendRegisterElement wraps a generic register record in a resource
// list buffer and adds it as a package element.
func appendRegisterElement(pkg *aml.ObjectNode, reg types.GenericAddress) error {
	buffer, err := aml.ResourceTemplateBuffer(pkg)
	if err != nil {
		return err
	}
	record, err := resource.Register(reg, nil)
	if err != nil {
		return err
	}
	return aml.BufferAppendResource(buffer, record)
}
