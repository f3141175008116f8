// Package fuzztests houses Go fuzz harnesses that exercise the calc front end
// (lexer -> parser -> compiler). Its goal is to smoke test robustness and
// guard against panics on arbitrary inputs.
//
// Назначение: прогонять произвольные байты через лексер, парсер и полную
// инкрементальную компиляцию.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
