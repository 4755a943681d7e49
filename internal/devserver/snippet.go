package devserver

import (
	"bytes"
	"fmt"
)

// ClientScriptURL is the Socket.IO browser client loaded by the snippet.
const ClientScriptURL = "https://cdn.socket.io/4.7.5/socket.io.min.js"

const reloadScript = `<script>
(function () {
  var socket = io({ path: %q });
  socket.on("reload", function (msg) {
    if (msg && msg.kind === "css") {
      document.querySelectorAll('link[rel="stylesheet"]').forEach(function (link) {
        var url = new URL(link.href);
        url.searchParams.set("themeforge", Date.now());
        link.href = url.toString();
      });
      return;
    }
    window.location.reload();
  });
})();
</script>
`

// Snippet returns the markup injected into served HTML pages.
func Snippet() []byte {
	return []byte(fmt.Sprintf("<script src=%q></script>\n", ClientScriptURL) +
		fmt.Sprintf(reloadScript, SocketPath))
}

// Inject inserts the snippet before the last </body>, or appends it when
// the page has no body end tag.
func Inject(page []byte) []byte {
	snippet := Snippet()
	i := bytes.LastIndex(bytes.ToLower(page), []byte("</body>"))
	if i < 0 {
		return append(page, snippet...)
	}
	out := make([]byte, 0, len(page)+len(snippet))
	out = append(out, page[:i]...)
	out = append(out, snippet...)
	return append(out, page[i:]...)
}
