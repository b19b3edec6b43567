// Package evolution implements a generational string evolver: organisms
// scored against a target string, crossover and mutation operators,
// populations with elitist selection and the driver loop tying them together.
package evolution
