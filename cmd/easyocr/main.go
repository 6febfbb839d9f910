package main

import "github.com/FarhanLodi/EasyOcrSharp/cmd/easyocr/cmd"

func main() {
	cmd.Execute()
}
