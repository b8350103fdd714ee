// Package config resolves the answers a project was generated with.
//
// Sources are layered with koanf, later ones winning: embedded defaults,
// the answers file left in the project (.copier-answers.yml or
// postgen.toml), POSTGEN_* environment variables, and --set overrides.
// Cookiecutter-style "y"/"n" answers are decoded into bools here so no
// other package compares strings against "y".
package config
