// Package provider supplies hardware description records to the topology
// builder: a plain in-memory implementation, and a YAML loader that maps a
// human-editable topology description onto it.
package provider
