// Package fuzztests houses Go fuzz harnesses for the validating pipeline
// (source -> lexer -> parser -> sema). They guard against panics and hangs
// on arbitrary input and check token stream invariants on whatever the
// validator produced.
//
// Назначение: прогонять произвольные байты через лексер и driver.Parse.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.

package fuzztests
