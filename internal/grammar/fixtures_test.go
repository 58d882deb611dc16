package grammar

// Shared fixtures, shaped after real runtime output per ecosystem.

const goPanicDump = `panic: runtime error: index out of range [3] with length 2

goroutine 1 [running]:
main.lookup(0x3)
	/srv/app/main.go:24 +0x1d
main.main()
	/srv/app/main.go:11 +0x20
`

const goFatalDump = `fatal error: concurrent map writes

goroutine 12 [running]:
runtime.throw({0x4a2b11?, 0x0?})
	/usr/local/go/src/runtime/panic.go:1023 +0x5c
main.(*cache).set(0xc000010000, {0x4a9912, 0x3})
	/srv/app/cache.go:57 +0x9a
created by main.serve in goroutine 1
	/srv/app/server.go:33 +0x1b8
`

const goPanicJSONLine = `{"level":"error","ts":"2025-03-01T10:00:00Z","msg":"panic: close of closed channel","stacktrace":"main.shutdown\n\t/srv/app/srv.go:88\nmain.main\n\t/srv/app/srv.go:31"}`

const pyTraceback = `Traceback (most recent call last):
  File "/srv/app/handler.py", line 42, in handle
    value = parse(payload)
  File "/srv/app/parse.py", line 17, in parse
    raise ValueError("unparseable payload")
ValueError: unparseable payload`

const pyChainedTraceback = `Traceback (most recent call last):
  File "/srv/app/db.py", line 9, in connect
    conn = driver.connect(dsn)
ConnectionRefusedError: [Errno 111] Connection refused

During handling of the above exception, another exception occurred:

Traceback (most recent call last):
  File "/srv/app/handler.py", line 42, in handle
    conn = connect()
RuntimeError: could not reach database`

const djangoError = `Internal Server Error: /api/orders
Traceback (most recent call last):
  File "/srv/shop/views.py", line 31, in create_order
    cursor.execute(query)
django.db.utils.OperationalError: could not connect to server`

const djangoJSONLine = `{"levelname":"ERROR","asctime":"2025-03-02 12:00:00,123","name":"django.request","message":"Internal Server Error: /api/orders","exc_info":"Traceback (most recent call last):\n  File \"/srv/shop/views.py\", line 31, in create_order\n    cursor.execute(query)\ndjango.db.utils.OperationalError: could not connect to server"}`

const csharpDump = `Unhandled exception. System.InvalidOperationException: Sequence contains no elements
   at System.Linq.ThrowHelper.ThrowNoElementsException()
   at Billing.Invoices.Generate(Int32 id) in /src/Billing/Invoices.cs:line 58
   at Billing.Program.Main(String[] args) in /src/Billing/Program.cs:line 12`

const csharpInnerDump = `System.AggregateException: One or more errors occurred. ---> System.Net.Http.HttpRequestException: Connection refused
   at Billing.Client.Fetch(Uri target) in /src/Billing/Client.cs:line 77
   --- End of inner exception stack trace ---
   at Billing.Program.Main(String[] args) in /src/Billing/Program.cs:line 12`
