package optimizer

// globalEntry describes one well-known global binding (ported from
// original_source/crates/oveo/src/globals.rs's GlobalValue/GlobalValueKind).
// Statics holds nested static members reachable via `Name.Member` access
// (e.g. "Math.floor", "Object.freeze") for the handful of globals whose
// member access this pass actually needs to resolve; most entries have
// no statics tracked and are still replaceable as a bare reference.
type globalEntry struct {
	Singleton bool
	Statics   map[string]*globalEntry
}

func obj(statics ...string) *globalEntry {
	e := &globalEntry{}
	if len(statics) > 0 {
		e.Statics = make(map[string]*globalEntry, len(statics))
		for _, s := range statics {
			e.Statics[s] = &globalEntry{}
		}
	}
	return e
}

func singletonFunc() *globalEntry { return &globalEntry{Singleton: true} }

// globalCategories mirrors Globals::add's category switch: a build
// spec.md §4.4 option names one or more of these to enable.
var globalCategories = map[string]map[string]*globalEntry{
	"js":                      jsGlobals,
	"console":                 consoleGlobals,
	"web":                     webGlobals,
	"web:typed-css":           webTypedCSSGlobals,
	"web:background-fetch":    webBackgroundFetchGlobals,
	"web:barcode":             webBarcodeGlobals,
	"web:battery":             webBatteryGlobals,
	"web:bluetooth":           webBluetoothGlobals,
	"web:sync":                webSyncGlobals,
	"web:paint":                webPaintGlobals,
}

var jsGlobals = map[string]*globalEntry{
	"AggregateError":         obj(),
	"Array":                  obj("from", "fromAsync", "isArray", "of"),
	"ArrayBuffer":            obj("isView"),
	"AsyncDisposableStack":   obj(),
	"AsyncFunction":          obj(),
	"AsyncGenerator":         obj(),
	"AsyncGeneratorFunction": obj(),
	"AsyncIterator":          obj(),
	"Atomics": obj("add", "and", "compareExchange", "exchange", "isLockFree", "load", "notify",
		"or", "pause", "store", "sub", "wait", "waitAsync", "xor"),
	"BigInt":         obj("asIntN", "asUintN"),
	"BigInt64Array":  obj("now", "parse", "UTC"),
	"BigUint64Array": obj(),
	"Boolean":        obj(),
	"DataView":       obj(),
	"Date":           obj(),
	"DisposableStack": obj(),
	"Error":          obj("captureStackTrace", "isError"),
	"FinalizationRegistry": obj(),
	"Float16Array":   obj(),
	"Float32Array":   obj(),
	"Float64Array":   obj(),
	"Function":       obj(),
	"Generator":      obj(),
	"GeneratorFunction": obj(),
	"Infinity":       obj(),
	"Int8Array":      obj(),
	"Int16Array":     obj(),
	"Int32Array":     obj(),
	"Intl":           obj("getCanonicalLocales", "supportedValuesOf"),
	"Iterator":       obj("from"),
	"JSON":           obj("isRawJSON", "parse", "rawJSON", "stringify"),
	"Map":            obj("groupBy"),
	"Math": obj("abs", "acos", "acosh", "asin", "asinh", "atan", "atan2", "atanh", "cbrt", "ceil",
		"clz32", "cos", "cosh", "exp", "expm1", "f16round", "floor", "fround", "hypot", "imul",
		"log", "log1p", "log2", "log10", "max", "min", "pow", "random", "round", "sign", "sin",
		"sinh", "sqrt", "sumPrecise", "tan", "tanh", "trunc",
		"E", "LN2", "LN10", "LOG2E", "LOG10E", "PI", "SQRT1_2", "SQRT2"),
	"NaN": obj(),
	"Number": obj("isFinite", "isInteger", "isNaN", "isSafeInteger", "parseFloat", "parseInt",
		"EPSILON", "MAX_SAFE_INTEGER", "MAX_VALUE", "MIN_SAFE_INTEGER", "MIN_VALUE", "NaN",
		"NEGATIVE_INFINITY", "POSITIVE_INFINITY"),
	"Object": obj("assign", "create", "defineProperties", "defineProperty", "entries", "freeze",
		"fromEntries", "getOwnPropertyDescriptor", "getOwnPropertyDescriptors", "getOwnPropertyNames",
		"getOwnPropertySymbols", "getPrototypeOf", "groupBy", "hasOwn", "is", "isExtensible",
		"isFrozen", "isSealed", "keys", "preventExtensions", "seal", "setPrototypeOf", "values",
		"prototype"),
	"Promise":       obj("all", "allSettled", "any", "race", "reject", "resolve", "try", "withResolvers"),
	"Proxy":         obj(),
	"RangeError":    obj(),
	"ReferenceError": obj(),
	"Reflect": obj("apply", "construct", "defineProperty", "deleteProperty", "get",
		"getOwnPropertyDescriptor", "getPrototypeOf", "has", "isExtensible", "ownKeys",
		"preventExtensions", "set", "setPrototypeOf"),
	"RegExp":            obj("escape"),
	"Set":               obj(),
	"SharedArrayBuffer": obj(),
	"String":            obj("fromCharCode", "fromCodePoint", "raw"),
	"Symbol": obj("asyncDispose", "dispose", "for", "keyFor", "asyncIterator", "hasInstance",
		"isConcatSpreadable", "iterator", "match", "matchAll", "replace", "search", "species",
		"split", "toPrimitive", "toStringTag", "unscopables"),
	"SyntaxError":         obj(),
	"TextDecoder":         singletonFunc(),
	"TextEncoder":         singletonFunc(),
	"TypedArray":          obj("from", "of", "BYTES_PER_ELEMENT"),
	"TypeError":           obj(),
	"Uint8Array":          obj(),
	"Uint8ClampedArray":   obj(),
	"Uint16Array":         obj(),
	"Uint32Array":         obj(),
	"URIError":            obj(),
	"URLPattern":          obj(),
	"WeakMap":             obj(),
	"WeakRef":             obj(),
	"WeakSet":             obj(),
	"decodeURI":           obj(),
	"decodeURIComponent":  obj(),
	"encodeURI":           obj(),
	"encodeURIComponent":  obj(),
	"isFinite":            obj(),
	"isNaN":               obj(),
	"parseFloat":          obj(),
	"parseInt":            obj(),
	"undefined":           obj(),
}

var consoleGlobals = map[string]*globalEntry{
	"console": obj("assert", "clear", "countReset", "count", "debug", "dir", "dirxml", "error",
		"groupCollapsed", "groupEnd", "group", "info", "log", "profileEnd", "profile", "table",
		"timeEnd", "timeLog", "timeStamp", "time", "trace", "warn"),
}

var webGlobals = map[string]*globalEntry{
	"Navigator": obj(), "Window": obj(), "Document": obj(), "URLSearchParams": obj(), "Range": obj(),
	"Element": obj(), "HTMLDocument": obj(), "HTMLCollection": obj(), "HTMLFormControlsCollection": obj(),
	"HTMLOptionsCollection": obj(), "HTMLElement": obj(), "HTMLAreaElement": obj(), "HTMLAnchorElement": obj(),
	"HTMLAudioElement": obj(), "HTMLBaseElement": obj(), "HTMLBodyElement": obj(), "HTMLBRElement": obj(),
	"HTMLButtonElement": obj(), "HTMLCanvasElement": obj(), "HTMLDataElement": obj(), "HTMLDataListElement": obj(),
	"HTMLDetailsElement": obj(), "HTMLDialogElement": obj(), "HTMLDivElement": obj(), "HTMLDListElement": obj(),
	"HTMLEmbedElement": obj(), "HTMLFencedFrameElement": obj(), "HTMLFieldSetElement": obj(), "HTMLFormElement": obj(),
	"HTMLHeadElement": obj(), "HTMLHeadingElement": obj(), "HTMLHRElement": obj(), "HTMLHtmlElement": obj(),
	"HTMLIFrameElement": obj(), "HTMLImageElement": obj(), "HTMLInputElement": obj(), "HTMLLabelElement": obj(),
	"HTMLLegendElement": obj(), "HTMLLIElement": obj(), "HTMLLinkElement": obj(), "HTMLMapElement": obj(),
	"HTMLMediaElement": obj(), "HTMLMenuElement": obj(), "HTMLMetaElement": obj(), "HTMLMeterElement": obj(),
	"HTMLModElement": obj(), "HTMLObjectElement": obj(), "HTMLOListElement": obj(), "HTMLOptGroupElement": obj(),
	"HTMLOptionElement": obj(), "HTMLOutputElement": obj(), "HTMLParagraphElement": obj(), "HTMLPictureElement": obj(),
	"HTMLPreElement": obj(), "HTMLProgressElement": obj(), "HTMLQuoteElement": obj(), "HTMLScriptElement": obj(),
	"HTMLSelectElement": obj(), "HTMLSlotElement": obj(), "HTMLSourceElement": obj(), "HTMLSpanElement": obj(),
	"HTMLStyleElement": obj(), "HTMLTableCaptionElement": obj(), "HTMLTableCellElement": obj(),
	"HTMLTableColElement": obj(), "HTMLTableElement": obj(), "HTMLTableRowElement": obj(),
	"HTMLTableSectionElement": obj(), "HTMLTemplateElement": obj(), "HTMLTextAreaElement": obj(),
	"HTMLTimeElement": obj(), "HTMLTitleElement": obj(), "HTMLTrackElement": obj(), "HTMLUListElement": obj(),
	"HTMLUnknownElement": obj(), "HTMLVideoElement": obj(), "SVGElement": obj(),

	"AnimationEvent": obj(), "AnimationPlaybackEvent": obj(), "BeforeUnloadEvent": obj(), "CloseEvent": obj(),
	"CommandEvent": obj(), "CompositionEvent": obj(), "CustomEvent": obj(), "DragEvent": obj(), "ErrorEvent": obj(),
	"FetchEvent": obj(), "FocusEvent": obj(), "FontFaceSetLoadEvent": obj(), "FormDataEvent": obj(),
	"GamepadEvent": obj(), "HashChangeEvent": obj(), "InputEvent": obj(), "InstallEvent": obj(),
	"KeyboardEvent": obj(), "MessageEvent": obj(), "MouseEvent": obj(), "PointerEvent": obj(),
	"ProgressEvent": obj(), "PromiseRejectionEvent": obj(), "SubmitEvent": obj(), "TimeEvent": obj(),
	"ToggleEvent": obj(), "TouchEvent": obj(), "TrackEvent": obj(), "UIEvent": obj(), "WheelEvent": obj(),

	"navigator": obj(), "document": obj(), "crypto": obj(), "crossOriginIsolated": obj(),
	"customElements": obj(), "frameElement": obj(), "history": obj(), "isSecureContext": obj(),
	"localStorage": obj(), "sessionStorage": obj(), "trustedTypes": obj(), "setTimeout": obj(),
	"clearTimeout": obj(), "queueMicrotask": obj(), "performance": obj(),

	"MessageChannel": obj(), "MessagePort": obj(), "BroadcastChannel": obj(),
	"requestAnimationFrame": obj(), "cancelAnimationFrame": obj(),

	"Blob": obj(), "FormData": obj(), "XMLHttpRequest": obj(), "Request": obj(), "fetch": obj(),

	"ReadableStream": obj(), "ReadableStreamDefaultReader": obj(), "ReadableStreamDefaultController": obj(),
	"WritableStream": obj(), "WritableStreamDefaultWriter": obj(), "WritableStreamDefaultController": obj(),
	"TransformStream": obj(), "TransformStreamDefaultController": obj(), "ByteLengthQueuingStrategy": obj(),
	"CountQueuingStrategy": obj(), "ReadableStreamBYOBReader": obj(), "ReadableByteStreamController": obj(),
	"ReadableStreamBYOBRequest": obj(),

	"Clipboard": obj(), "ClipboardEvent": obj(), "ClipboardItem": obj(),

	"CaretPosition": obj(), "CSS": obj("highlights"), "CSSConditionRule": obj(), "CSSCounterStyleRule": obj(),
	"CSSFontFaceRule": obj(), "CSSFontFeatureValuesMap": obj(), "CSSFontFeatureValuesRule": obj(),
	"CSSGroupingRule": obj(), "CSSImportRule": obj(), "CSSKeyframeRule": obj(), "CSSKeyframesRule": obj(),
	"CSSMarginRule": obj(), "CSSMediaRule": obj(), "CSSNamespaceRule": obj(), "CSSPageRule": obj(),
	"CSSPositionTryRule": obj(), "CSSPositionTryDescriptors": obj(), "CSSRule": obj(), "CSSRuleList": obj(),
	"CSSStartingStyleRule": obj(), "CSSStyleDeclaration": obj(), "CSSStyleSheet": obj(), "CSSStyleRule": obj(),
	"CSSSupportRule": obj(), "CSSNestedDeclarations": obj(), "FontFace": obj(), "FontFaceSet": obj(),
	"MediaList": obj(), "MediaQueryList": obj(), "MediaQueryListEvent": obj(), "Screen": obj(),
	"StyleSheet": obj(), "StyleSheetList": obj(), "TransitionEvent": obj(), "VisualViewport": obj(),

	"MutationObserver": obj(),

	"CanvasRenderingContext2D": obj(), "CanvasGradient": obj(), "CanvasPattern": obj(), "ImageBitmap": obj(),
	"ImageData": obj(), "TextMetrics": obj(), "OffscreenCanvas": obj(), "Path2D": obj(),
	"ImageBitmapRenderingContext": obj(),

	"IDBFactory": obj(), "IDBOpenDBRequest": obj(), "IDBDatabase": obj(), "IDBTransaction": obj(),
	"IDBRequest": obj(), "IDBObjectStore": obj(), "IDBIndex": obj(), "IDBCursor": obj(),
	"IDBCursorWithValue": obj(), "IDBKeyRange": obj(), "IDBVersionChangeEvent": obj(), "indexedDB": obj(),

	"Credential": obj(), "CredentialsContainer": obj(), "FederatedCredential": obj(), "PasswordCredential": obj(),

	"WorkerNavigator": obj(), "WorkerGlobalScope": obj(),

	"Cache": obj(), "CacheStorage": obj(), "Client": obj(), "Clients": obj(), "ExtendableEvent": obj(),
	"ExtendableMessageEvent": obj(), "NavigationPreloadManager": obj(), "ServiceWorker": obj(),
	"ServiceWorkerContainer": obj(), "ServiceWorkerGlobalScope": obj(), "ServiceWorkerRegistration": obj(),
	"WindowClient": obj(), "caches": obj(),

	"cookieStore": obj(), "CookieStore": obj(), "cookieStoreManager": obj(), "CookieChangeEvent": obj(),
	"ExtendableCookieChangeEvent": obj(),

	"MediaDevices": obj(),

	"IntersectionObserver": obj(), "IntersectionObserverEntry": obj(),

	"IdleDeadline": obj(), "requestIdleCallback": obj(), "cancelIdleCallback": obj(),

	"Scheduler": obj(), "scheduler": obj(),

	"Highlight": obj(), "HighlightRegistry": obj(),

	"EditContext": obj(), "TextFormat": obj(), "TextUpdateEvent": obj(), "TextFormatUpdateEvent": obj(),
	"CharacterBoundsUpdateEvent": obj(),
}

var webTypedCSSGlobals = map[string]*globalEntry{
	"CSS":                   obj("registerProperty", "highlights"),
	"CSSPropertyRule":       obj(),
	"CSSStyleValue":         obj("parseAll", "parse"),
	"CSSImageValue":         obj(),
	"CSSKeywordValue":       obj(),
	"CSSMathValue":          obj(),
	"CSSMathInvert":         obj(),
	"CSSMathMax":            obj(),
	"CSSMathMin":            obj(),
	"CSSMathNegate":         obj(),
	"CSSMathProduct":        obj(),
	"CSSMathSum":            obj(),
	"CSSNumericValue":       obj(),
	"CSSNumericArray":       obj(),
	"CSSPerspective":        obj(),
	"CSSPositionValue":      obj(),
	"CSSRotate":             obj(),
	"CSSScale":              obj(),
	"CSSSkew":               obj(),
	"CSSSkewX":              obj(),
	"CSSSkewY":              obj(),
	"CSSTransformValue":     obj(),
	"CSSTransformComponent": obj(),
	"CSSTranslate":          obj(),
	"CSSUnitValue":          obj(),
	"CSSUnparsedValue":      obj(),
	"CSSVariableReferenceValue": obj(),
	"StylePropertyMap":      obj(),
	"StylePropertyMapReadOnly": obj(),
}

var webBackgroundFetchGlobals = map[string]*globalEntry{
	"BackgroundFetchManager":      obj(),
	"BackgroundFetchRegistration": obj(),
	"BackgroundFetchRecord":       obj(),
	"BackgroundFetchEvent":        obj(),
	"BackgroundFetchUIEvent":      obj(),
}

var webSyncGlobals = map[string]*globalEntry{
	"SyncManager": obj(),
	"SyncEvent":   obj(),
}

var webBatteryGlobals = map[string]*globalEntry{
	"BatteryManager": obj(),
}

var webBarcodeGlobals = map[string]*globalEntry{
	"BarcodeDetector": obj(),
}

var webBluetoothGlobals = map[string]*globalEntry{
	"Bluetooth":                          obj(),
	"BluetoothCharacteristicProperties":  obj(),
	"BluetoothDevice":                    obj(),
	"BluetoothRemoteGATTCharacteristic":  obj(),
	"BluetoothRemoteGATTDescriptor":      obj(),
	"BluetoothRemoteGATTServer":          obj(),
	"BluetoothRemoteGATTService":         obj(),
}

var webPaintGlobals = map[string]*globalEntry{
	"PaintWorkletGlobalScope":  obj(),
	"PaintRenderingContext2D":  obj(),
	"PaintSize":                obj(),
}
