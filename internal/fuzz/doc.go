// Package fuzztests houses Go fuzz harnesses for the circa front end
// (source -> lexer -> parser -> checker). They guard against panics, hangs
// and malformed spans on arbitrary input.
//
// Назначение: прогонять произвольные байты через лексер, парсер и полную
// проверку в памяти.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
