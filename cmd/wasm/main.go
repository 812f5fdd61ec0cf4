//go:build js && wasm

// Command wasm exposes a border session to the page script as the global
// whiteBorder object.
package main

import (
	"log"
	"syscall/js"

	"github.com/jo-hoe/whiteborder/internal/border"
	"github.com/jo-hoe/whiteborder/internal/core"
)

const (
	globalName = "whiteBorder"
	readyEvent = "whiteborder-ready"
)

func main() {
	session := core.NewSession()
	api := js.Global().Get("Object").New()

	api.Set("load", js.FuncOf(func(this js.Value, args []js.Value) any {
		result := js.Global().Get("Object").New()
		if len(args) < 1 || args[0].IsUndefined() || args[0].IsNull() {
			result.Set("error", core.ErrNoImage.Error())
			return result
		}
		data := make([]byte, args[0].Get("length").Int())
		js.CopyBytesToGo(data, args[0])

		name := ""
		if len(args) > 1 && args[1].Type() == js.TypeString {
			name = args[1].String()
		}
		dims, err := session.Load(name, data)
		result.Set("width", dims.Width)
		result.Set("height", dims.Height)
		if err != nil {
			result.Set("error", err.Error())
		}
		return result
	}))

	api.Set("setPercent", js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) < 1 {
			return session.Percent()
		}
		return session.SetPercent(args[0].Int())
	}))

	api.Set("setRenderedSize", js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) >= 2 {
			session.SetRenderedSize(args[0].Int(), args[1].Int())
		}
		return session.PreviewBorder()
	}))

	api.Set("previewBorder", js.FuncOf(func(this js.Value, args []js.Value) any {
		return session.PreviewBorder()
	}))

	api.Set("hasImage", js.FuncOf(func(this js.Value, args []js.Value) any {
		return session.HasImage()
	}))

	api.Set("busy", js.FuncOf(func(this js.Value, args []js.Value) any {
		return session.Busy()
	}))

	api.Set("limits", js.FuncOf(func(this js.Value, args []js.Value) any {
		limits := js.Global().Get("Object").New()
		limits.Set("min", border.MinPercent)
		limits.Set("max", border.MaxPercent)
		limits.Set("default", border.DefaultPercent)
		return limits
	}))

	api.Set("close", js.FuncOf(func(this js.Value, args []js.Value) any {
		session.Close()
		return nil
	}))

	api.Set("exportPNG", js.FuncOf(func(this js.Value, args []js.Value) any {
		return exportPromise(session)
	}))

	js.Global().Set(globalName, api)
	js.Global().Call("dispatchEvent", js.Global().Get("Event").New(readyEvent))
	log.Printf("%s ready", globalName)

	select {}
}

// exportPromise runs the export on its own goroutine and settles the returned
// promise with {name, bytes, width, height, border} or an Error.
func exportPromise(session *core.Session) js.Value {
	var executor js.Func
	executor = js.FuncOf(func(this js.Value, args []js.Value) any {
		resolve, reject := args[0], args[1]
		go func() {
			defer executor.Release()
			artifact, err := session.Export()
			if err != nil {
				reject.Invoke(js.Global().Get("Error").New(err.Error()))
				return
			}
			bytes := js.Global().Get("Uint8Array").New(len(artifact.Data))
			js.CopyBytesToJS(bytes, artifact.Data)

			result := js.Global().Get("Object").New()
			result.Set("name", artifact.FileName)
			result.Set("bytes", bytes)
			result.Set("width", artifact.Width)
			result.Set("height", artifact.Height)
			result.Set("border", artifact.Border)
			resolve.Invoke(result)
		}()
		return nil
	})
	return js.Global().Get("Promise").New(executor)
}
