package codegen

// emitPrelude writes the tier-appropriate header: standard includes, the
// macros the statement/expression emitters rely on, and extern
// declarations for the runtime functions this translation unit calls.
// The runtime's own implementation is an external collaborator (spec
// §1 non-goals) — codegen only ever declares and calls it.
func (g *generator) emitPrelude() {
	switch g.tier {
	case tierUltraMinimal:
		g.emitUltraMinimalPrelude()
	case tierMinimal:
		g.emitMinimalPrelude()
	default:
		g.emitFullPrelude()
	}
}

func (g *generator) emitUltraMinimalPrelude() {
	g.out.WriteString(`/* generated by the LineScript compiler: ultra-minimal tier */
#include <stdint.h>
#include <stdbool.h>
#include <string.h>
#include <windows.h>

#define LS_ALWAYS_INLINE __forceinline

static inline void ls_write_stdout(const char *s, size_t n) {
	DWORD written;
	WriteFile(GetStdHandle(STD_OUTPUT_HANDLE), s, (DWORD)n, &written, NULL);
}
static inline void print_str(const char *s) { ls_write_stdout(s, strlen(s)); }
static inline void print_i64(int64_t v) {
	char buf[24];
	int n = 0;
	bool neg = v < 0;
	uint64_t u = neg ? (uint64_t)(-v) : (uint64_t)v;
	do { buf[n++] = (char)('0' + (u % 10)); u /= 10; } while (u != 0);
	if (neg) buf[n++] = '-';
	char rev[24];
	for (int i = 0; i < n; i++) rev[i] = buf[n - 1 - i];
	ls_write_stdout(rev, (size_t)n);
}
static inline void print_bool(bool v) { print_str(v ? "true" : "false"); }
static inline void println_str(const char *s) { print_str(s); print_str("\n"); }
static inline void println_i64(int64_t v) { print_i64(v); print_str("\n"); }
static inline void println_bool(bool v) { print_bool(v); print_str("\n"); }
static inline void println_void(void) { print_str("\n"); }

#define PRINT(x) _Generic((x), int64_t: print_i64, bool: print_bool, const char *: print_str, char *: print_str)(x)
#define PRINTLN(x) _Generic((x), int64_t: println_i64, bool: println_bool, const char *: println_str, char *: println_str)(x)
`)
}

func (g *generator) emitMinimalPrelude() {
	g.out.WriteString(`/* generated by the LineScript compiler: minimal tier */
#include <stdint.h>
#include <stdbool.h>
#include <stdio.h>
#include <string.h>

#define LS_ALWAYS_INLINE static inline

static inline void print_i32(int32_t v) { fprintf(stdout, "%d", v); }
static inline void print_i64(int64_t v) { fprintf(stdout, "%lld", (long long)v); }
static inline void print_bool(bool v) { fputs(v ? "true" : "false", stdout); }
static inline void print_str(const char *v) { fputs(v, stdout); }
static inline void println_i32(int32_t v) { print_i32(v); fputc('\n', stdout); }
static inline void println_i64(int64_t v) { print_i64(v); fputc('\n', stdout); }
static inline void println_bool(bool v) { print_bool(v); fputc('\n', stdout); }
static inline void println_str(const char *v) { print_str(v); fputc('\n', stdout); }
static inline void println_void(void) { fputc('\n', stdout); }

#define PRINT(x) _Generic((x), int32_t: print_i32, int64_t: print_i64, bool: print_bool, const char *: print_str, char *: print_str)(x)
#define PRINTLN(x) _Generic((x), int32_t: println_i32, int64_t: println_i64, bool: println_bool, const char *: println_str, char *: println_str)(x)

static inline int64_t ls_max_i64(int64_t a, int64_t b) { return a > b ? a : b; }
static inline int64_t ls_min_i64(int64_t a, int64_t b) { return a < b ? a : b; }
static inline int64_t ls_abs_i64(int64_t a) { return a < 0 ? -a : a; }
static inline int64_t ls_clamp_i64(int64_t v, int64_t lo, int64_t hi) { return v < lo ? lo : (v > hi ? hi : v); }
`)
}

func (g *generator) emitFullPrelude() {
	g.out.WriteString(`/* generated by the LineScript compiler: full tier */
#include <stdint.h>
#include <stdbool.h>
#include <stdio.h>
#include <string.h>
#include <math.h>
#include <time.h>

#define LS_ALWAYS_INLINE static inline

#if defined(_OPENMP)
#define LS_PAR_FOR_IF(cond) _Pragma("omp parallel for if(cond)")
#define LS_OMP_SIMD _Pragma("omp simd")
#else
#define LS_PAR_FOR_IF(cond)
#define LS_OMP_SIMD
#endif
#define LS_VEC_HINT
#define LS_PAR_MIN_ITERS 4096

/* runtime entry points: implemented by the external LineScript C
 * runtime library linked in by the driver, not by this translation
 * unit (spec §1). */
extern void print_i32(int32_t v);
extern void print_i64(int64_t v);
extern void print_f32(float v);
extern void print_f64(double v);
extern void print_bool(bool v);
extern void print_str(const char *v);
extern void println_i32(int32_t v);
extern void println_i64(int64_t v);
extern void println_f32(float v);
extern void println_f64(double v);
extern void println_bool(bool v);
extern void println_str(const char *v);
extern void println_void(void);

#define PRINT(x) _Generic((x), int32_t: print_i32, int64_t: print_i64, float: print_f32, double: print_f64, bool: print_bool, const char *: print_str, char *: print_str)(x)
#define PRINTLN(x) _Generic((x), int32_t: println_i32, int64_t: println_i64, float: println_f32, double: println_f64, bool: println_bool, const char *: println_str, char *: println_str)(x)

extern int64_t ls_max_i64(int64_t a, int64_t b);
extern int64_t ls_min_i64(int64_t a, int64_t b);
extern int64_t ls_abs_i64(int64_t a);
extern int64_t ls_clamp_i64(int64_t v, int64_t lo, int64_t hi);
extern double ls_pow(double base, double exp);

extern const char *ls_str_hold(const char *s);
extern bool ls_str_eq(const char *a, const char *b);
extern bool ls_str_neq(const char *a, const char *b);

extern void ls_format_begin(void);
extern const char *ls_format_end(const char *end_suffix);
extern void ls_emit_text(const char *s);

extern const char *object_get(int64_t handle, const char *field);
extern void object_set(int64_t handle, const char *field, const char *value);
extern int64_t parse_i64(const char *s);
extern double parse_f64(const char *s);
extern const char *format_output(const char *s);
extern const char *ls_format_i64(int64_t v);
extern const char *ls_format_f64(double v);
extern const char *ls_format_bool(bool v);

extern int64_t array_new(void); extern void array_free(int64_t h);
extern int64_t dict_new(void); extern void dict_free(int64_t h);
extern int64_t map_new(void); extern void map_free(int64_t h);
extern int64_t object_new(void); extern void object_free(int64_t h);
extern int64_t option_new(void); extern void option_free(int64_t h);
extern int64_t result_new(void); extern void result_free(int64_t h);
extern int64_t np_new(void); extern void np_free(int64_t h);
extern int64_t gfx_new(void); extern void gfx_free(int64_t h);
extern int64_t game_new(void); extern void game_free(int64_t h);
extern int64_t pg_surface_new(void); extern void pg_surface_free(int64_t h);
extern int64_t phys_new(void); extern void phys_free(int64_t h);
extern int64_t http_server_new(void); extern void http_server_free(int64_t h);
extern int64_t http_client_new(void); extern void http_client_free(int64_t h);

extern int64_t ls_sum_mod_linear_i128(int64_t a, int64_t b, int64_t m, int64_t start, int64_t n);
extern void ls_spawn(void (*fn)(void));
extern void ls_await(int64_t task);
extern void ls_await_all(void);
extern int64_t clock_us(void);

extern int cli_token(int i);
extern bool cli_has(const char *flag);
extern const char *cli_value(const char *flag);

extern bool superuser_mode(void);
extern void ls_su_guard(const char *site);
`)
}
