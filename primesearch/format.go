// utilitário pequeno para formatação de números em headers/mensagens,
// sem puxar fmt só para isso.

package primesearch

import "strconv"

func formatInt(v int) string { return strconv.Itoa(v) }
