// Package eligian compiles parsed Eligian timeline/action programs into the
// configuration document consumed by the Eligius presentation engine.
//
// The pipeline provides:
//
//   - Import resolution: library actions merged (with optional rename) into
//     the compiling unit, with duplicate and cycle detection
//   - AST -> IR lowering with constant folding, lexical constant scoping, and
//     call-target resolution with typo suggestions
//   - Structural type checking with field-path-qualified errors
//   - Dead timeline-action elimination
//   - Emission of the publishable configuration, including the schema marker
//
// Design policy:
//
//   - Keep only the public pipeline surface in the root package; stage
//     implementations live under internal/.
//   - Boundary types have their own packages: ast/ (parser output), registry/
//     (operation signatures), ir/ (compiled document), resolve/ (library
//     loading), emit/ (published form), errors/ (the error taxonomy).
//   - The CLI lives under cmd/eligian.
//
// Typical usage:
//
//	doc, res, err := eligian.Compile(prog,
//	        eligian.WithRegistry(reg),
//	        eligian.WithLibraries(units))
//	data, err := doc.MarshalIndent()
package eligian
