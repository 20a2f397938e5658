// Package commands holds the editing commands of the composer.
//
// A command has the shape of engine.Command: it inspects a state and
// returns the transaction that performs it, or false when it does not
// apply. Commands never commit; callers pass the transaction to
// (*engine.Editor).Dispatch or run the command with (*engine.Editor).Run.
//
//	ed.Run(commands.InsertMath(`\frac{1}{2}`))
//	ed.Run(commands.Chain(commands.DeleteSelection, commands.JoinBackward))
//
// Positions count runes. Atomic nodes are inserted together with a
// one-character placeholder after them so the cursor always has an
// inline position to land on.
package commands
