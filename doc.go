// Package marzipan converts between in-memory objects (structs, maps, or
// anything implementing Getter) and plain, ordered key/value
// representations, validating data in both directions and collecting
// per-field errors instead of stopping at the first.
//
// A schema is declared once with the builder and compiled into a Definition;
// each use site binds a cheap, runtime-configured instance:
//
//	user := marzipan.Define().
//		Field("name", fields.String()).
//		Field("age", fields.Int(fields.Default(0))).
//		MustCompile()
//
//	s := user.MustBind()
//	res, err := s.Dump(ctx, someUser)   // res.Data, res.Errors
//	in, err := s.Load(ctx, payloadMap)  // in.Data, in.Errors
//
// Design policy:
// - Keep only public APIs in the root package; the field catalog lives under
//   fields/, wire codecs under codec/, lexical validators under lexical/.
// - Errors are collected into a flat, ordered ErrorBag; strict instances
//   raise instead. Definition-time problems always raise.
// - Prefer black-box testing against public APIs.
package marzipan
