// Package runconfig loads and validates the YAML-backed configuration
// for one sampling run: seed, bias, interaction size, sample count, and
// which sampler to drive. It follows the same Load/Validate/Hash shape
// as the teacher's dungeon.Config, adapted to the CLI option surface
// spec.md §6 documents.
package runconfig
